// Package anthropic reports API rate-limit headroom from the
// anthropic-ratelimit response headers on a messages-endpoint probe.
package anthropic

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
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultAPIKeyEnv = "ANTHROPIC_API_KEY"
	apiVersion       = "2023-06-01"
)

type Config struct {
	BaseURL   string
	APIKey    string
	APIKeyEnv string
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
	return &Provider{Base: providerbase.New("anthropic", "Anthropic"), cfg: cfg}
}

func (p *Provider) resolveAPIKey() string {
	if p.cfg.APIKey != "" {
		return p.cfg.APIKey
	}
	return os.Getenv(p.cfg.APIKeyEnv)
}

// Query probes the messages endpoint for its rate-limit headers.
// Anthropic attaches anthropic-ratelimit-{requests,tokens}-{limit,
// remaining,reset} even to rejected requests, so a bare GET is enough.
func (p *Provider) Query(ctx context.Context) (string, error) {
	ctx, cancel := p.Bound(ctx)
	defer cancel()

	apiKey := p.resolveAPIKey()
	if apiKey == "" {
		var r shared.Report
		r.Skipped("Auth", "set "+p.cfg.APIKeyEnv)
		return r.String(), nil
	}

	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": apiVersion,
	}
	code, respHeaders, err := shared.GetJSON(ctx, p.cfg.BaseURL+"/messages", "", headers, nil)
	if err != nil {
		return "", fmt.Errorf("probe failed: %w", err)
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "", fmt.Errorf("check API key (HTTP %d)", code)
	case code >= http.StatusInternalServerError:
		log.Printf("[anthropic] probe HTTP %d, headers: %v", code, parsers.RedactHeaders(respHeaders))
		return "", fmt.Errorf("probe returned HTTP %d", code)
	}

	requests := parsers.ParseRateLimitGroup(respHeaders,
		"anthropic-ratelimit-requests-limit",
		"anthropic-ratelimit-requests-remaining",
		"anthropic-ratelimit-requests-reset",
	)
	tokens := parsers.ParseRateLimitGroup(respHeaders,
		"anthropic-ratelimit-tokens-limit",
		"anthropic-ratelimit-tokens-remaining",
		"anthropic-ratelimit-tokens-reset",
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
		r.Linef("Probe", "no rate-limit headers (HTTP %d)", code)
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
