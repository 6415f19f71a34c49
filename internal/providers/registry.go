// Package providers assembles the adapter registry the engine fans out
// to. Order here is presentation order everywhere in the dashboard.
package providers

import (
	"github.com/samber/lo"

	"github.com/janekbaraniewski/quotadeck/internal/config"
	"github.com/janekbaraniewski/quotadeck/internal/core"
	"github.com/janekbaraniewski/quotadeck/internal/providers/anthropic"
	"github.com/janekbaraniewski/quotadeck/internal/providers/claudeweb"
	"github.com/janekbaraniewski/quotadeck/internal/providers/copilot"
	"github.com/janekbaraniewski/quotadeck/internal/providers/cursorweb"
	"github.com/janekbaraniewski/quotadeck/internal/providers/demo"
	"github.com/janekbaraniewski/quotadeck/internal/providers/ollama"
	"github.com/janekbaraniewski/quotadeck/internal/providers/openai"
	"github.com/janekbaraniewski/quotadeck/internal/providers/openrouter"
)

// All returns every adapter with default construction, in registry
// order.
func All() []core.Provider {
	return FromConfig(config.DefaultConfig(), config.Credentials{})
}

// FromConfig builds the registry from persisted settings. Disabled
// providers are left out; per-provider overrides and stored credentials
// flow into each adapter's construction.
func FromConfig(cfg config.Config, creds config.Credentials) []core.Provider {
	var out []core.Provider
	add := func(id string, build func(s config.ProviderSettings) core.Provider) {
		if !cfg.ProviderEnabled(id) {
			return
		}
		out = append(out, build(cfg.Provider(id)))
	}

	add("openai", func(s config.ProviderSettings) core.Provider {
		return openai.NewWith(openai.Config{
			BaseURL:    s.BaseURL,
			APIKey:     lo.CoalesceOrEmpty(s.Token, creds.Key("openai")),
			APIKeyEnv:  s.APIKeyEnv,
			ProbeModel: s.Extra["probe_model"],
		})
	})
	add("anthropic", func(s config.ProviderSettings) core.Provider {
		return anthropic.NewWith(anthropic.Config{
			BaseURL:   s.BaseURL,
			APIKey:    lo.CoalesceOrEmpty(s.Token, creds.Key("anthropic")),
			APIKeyEnv: s.APIKeyEnv,
		})
	})
	add("openrouter", func(s config.ProviderSettings) core.Provider {
		return openrouter.NewWith(openrouter.Config{
			BaseURL:   s.BaseURL,
			APIKey:    lo.CoalesceOrEmpty(s.Token, creds.Key("openrouter")),
			APIKeyEnv: s.APIKeyEnv,
		})
	})
	add("copilot", func(s config.ProviderSettings) core.Provider {
		return copilot.NewWith(copilot.Config{
			BaseURL:   s.BaseURL,
			Token:     lo.CoalesceOrEmpty(s.Token, creds.Key("copilot")),
			ConfigDir: s.Extra["config_dir"],
		})
	})
	add("ollama", func(s config.ProviderSettings) core.Provider {
		return ollama.NewWith(ollama.Config{
			BaseURL: s.BaseURL,
			DBPath:  s.Extra["db_path"],
		})
	})
	add("claude_web", func(s config.ProviderSettings) core.Provider {
		return claudeweb.NewWith(claudeweb.Config{
			BaseURL:       s.BaseURL,
			CookiesDBPath: s.Extra["cookies_db"],
			AccountPath:   s.Extra["account_path"],
			OrgUUID:       s.Extra["org_uuid"],
		})
	})
	add("cursor_web", func(s config.ProviderSettings) core.Provider {
		return cursorweb.NewWith(cursorweb.Config{
			BaseURL:     s.BaseURL,
			Token:       s.Token,
			StateDBPath: s.Extra["state_db"],
		})
	})

	return out
}

// Demo returns the canned registry behind the --demo flag.
func Demo() []core.Provider {
	return demo.Providers()
}
