// Package openai reports API rate-limit headroom scraped from the
// x-ratelimit family of response headers on a cheap model probe.
package openai

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/janekbaraniewski/quotadeck/internal/parsers"
	"github.com/janekbaraniewski/quotadeck/internal/providers/providerbase"
	"github.com/janekbaraniewski/quotadeck/internal/providers/shared"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultProbeModel = "gpt-4o-mini"
	defaultAPIKeyEnv  = "OPENAI_API_KEY"
)

type Config struct {
	BaseURL    string
	APIKey     string
	APIKeyEnv  string
	ProbeModel string
}

type Provider struct {
	providerbase.Base
	cfg Config
}

func New() *Provider { return NewWith(Config{}) }

func NewWith(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = defaultAPIKeyEnv
	}
	if cfg.ProbeModel == "" {
		cfg.ProbeModel = defaultProbeModel
	}
	return &Provider{Base: providerbase.New("openai", "OpenAI"), cfg: cfg}
}

func (p *Provider) resolveAPIKey() string {
	if p.cfg.APIKey != "" {
		return p.cfg.APIKey
	}
	return os.Getenv(p.cfg.APIKeyEnv)
}

// Query probes a lightweight models endpoint and reads the rate-limit
// headers without consuming tokens. OpenAI returns request and token
// groups: x-ratelimit-{limit,remaining,reset}-{requests,tokens}.
func (p *Provider) Query(ctx context.Context) (string, error) {
	ctx, cancel := p.Bound(ctx)
	defer cancel()

	apiKey := p.resolveAPIKey()
	if apiKey == "" {
		var r shared.Report
		r.Skipped("Auth", "set "+p.cfg.APIKeyEnv)
		return r.String(), nil
	}

	url := p.cfg.BaseURL + "/models/" + p.cfg.ProbeModel
	code, headers, err := shared.GetJSON(ctx, url, apiKey, nil, nil)
	if err != nil {
		return "", fmt.Errorf("probe failed: %w", err)
	}

	switch code {
	case http.StatusOK, http.StatusTooManyRequests:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("check API key (HTTP %d)", code)
	default:
		log.Printf("[openai] probe HTTP %d, headers: %v", code, parsers.RedactHeaders(headers))
		return "", fmt.Errorf("probe returned HTTP %d", code)
	}

	requests := parsers.ParseRateLimitGroup(headers,
		"x-ratelimit-limit-requests",
		"x-ratelimit-remaining-requests",
		"x-ratelimit-reset-requests",
	)
	tokens := parsers.ParseRateLimitGroup(headers,
		"x-ratelimit-limit-tokens",
		"x-ratelimit-remaining-tokens",
		"x-ratelimit-reset-tokens",
	)

	var r shared.Report
	if code == http.StatusTooManyRequests {
		r.Skipped("Probe", "rate limited, HTTP 429")
	}
	appendGroup(&r, "Requests", requests)
	appendGroup(&r, "Tokens", tokens)

	reset := requests
	if reset == nil || reset.ResetTime == nil {
		reset = tokens
	}
	if reset != nil {
		if s := parsers.FormatReset(reset.ResetTime, time.Now()); s != "" {
			r.Linef("Reset", "%s", s)
		}
	}

	if r.Empty() {
		r.Linef("Probe", "no rate-limit headers on %s", p.cfg.ProbeModel)
	}
	return r.String(), nil
}

func appendGroup(r *shared.Report, name string, g *parsers.RateLimitGroup) {
	if g == nil {
		return
	}
	if pct := g.PercentRemaining(); pct != nil {
		r.Remaining(name, *pct)
		return
	}
	if g.Remaining != nil {
		r.Linef(name, "%.0f left", *g.Remaining)
	}
}
