package providers

import (
	"testing"

	"github.com/janekbaraniewski/quotadeck/internal/config"
)

func TestAll_OrderIsStable(t *testing.T) {
	want := []string{"openai", "anthropic", "openrouter", "copilot", "ollama", "claude_web", "cursor_web"}

	all := All()
	if len(all) != len(want) {
		t.Fatalf("All() returned %d providers, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID() != id {
			t.Errorf("All()[%d].ID() = %q, want %q", i, all[i].ID(), id)
		}
	}
}

func TestAll_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range All() {
		if seen[p.ID()] {
			t.Errorf("duplicate provider id %q", p.ID())
		}
		seen[p.ID()] = true
	}
}

func TestFromConfig_FiltersDisabled(t *testing.T) {
	off := false
	cfg := config.DefaultConfig()
	cfg.Providers = map[string]config.ProviderSettings{
		"openai":     {Enabled: &off},
		"claude_web": {Enabled: &off},
	}

	for _, p := range FromConfig(cfg, config.Credentials{}) {
		if p.ID() == "openai" || p.ID() == "claude_web" {
			t.Errorf("disabled provider %q still registered", p.ID())
		}
	}
}

func TestFromConfig_KeepsOrderAfterFilter(t *testing.T) {
	off := false
	cfg := config.DefaultConfig()
	cfg.Providers = map[string]config.ProviderSettings{
		"anthropic": {Enabled: &off},
	}

	got := FromConfig(cfg, config.Credentials{})
	want := []string{"openai", "openrouter", "copilot", "ollama", "claude_web", "cursor_web"}
	if len(got) != len(want) {
		t.Fatalf("got %d providers, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID() != id {
			t.Errorf("FromConfig()[%d].ID() = %q, want %q", i, got[i].ID(), id)
		}
	}
}

func TestDemo_CoversThreeProviders(t *testing.T) {
	if got := len(Demo()); got != 3 {
		t.Fatalf("Demo() returned %d providers, want 3", got)
	}
}
