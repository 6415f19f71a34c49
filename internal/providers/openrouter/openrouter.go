// Package openrouter reports credit balance and spend from the
// OpenRouter key and credits endpoints.
package openrouter

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/janekbaraniewski/quotadeck/internal/providers/providerbase"
	"github.com/janekbaraniewski/quotadeck/internal/providers/shared"
)

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultAPIKeyEnv = "OPENROUTER_API_KEY"
)

type keyResponse struct {
	Data keyData `json:"data"`
}

type keyData struct {
	Label          string    `json:"label"`
	Usage          float64   `json:"usage"`
	Limit          *float64  `json:"limit"`
	LimitRemaining *float64  `json:"limit_remaining"`
	UsageDaily     *float64  `json:"usage_daily"`
	UsageWeekly    *float64  `json:"usage_weekly"`
	UsageMonthly   *float64  `json:"usage_monthly"`
	IsFreeTier     bool      `json:"is_free_tier"`
	RateLimit      rateLimit `json:"rate_limit"`
}

type rateLimit struct {
	Requests int    `json:"requests"`
	Interval string `json:"interval"`
}

type creditsResponse struct {
	Data struct {
		TotalCredits     float64  `json:"total_credits"`
		TotalUsage       float64  `json:"total_usage"`
		RemainingBalance *float64 `json:"remaining_balance"`
	} `json:"data"`
}

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
	return &Provider{Base: providerbase.New("openrouter", "OpenRouter"), cfg: cfg}
}

func (p *Provider) resolveAPIKey() string {
	if p.cfg.APIKey != "" {
		return p.cfg.APIKey
	}
	return os.Getenv(p.cfg.APIKeyEnv)
}

// Query reads the current key's spend and limits, then the account
// credit balance. The key endpoint moved once already, so /key falls
// back to /auth/key on 404.
func (p *Provider) Query(ctx context.Context) (string, error) {
	ctx, cancel := p.Bound(ctx)
	defer cancel()

	apiKey := p.resolveAPIKey()
	if apiKey == "" {
		var r shared.Report
		r.Skipped("Auth", "set "+p.cfg.APIKeyEnv)
		return r.String(), nil
	}

	key, err := p.fetchKey(ctx, apiKey)
	if err != nil {
		return "", err
	}

	var r shared.Report

	keyPercent := false
	if key.Limit != nil && *key.Limit > 0 {
		remaining := *key.Limit - key.Usage
		if key.LimitRemaining != nil {
			remaining = *key.LimitRemaining
		}
		r.RemainingOf("Credits", remaining, *key.Limit)
		keyPercent = true
	}

	credits, creditsErr := p.fetchCredits(ctx, apiKey)
	switch {
	case creditsErr != nil:
		log.Printf("[openrouter] credits endpoint: %v", creditsErr)
		r.Skipped("Balance", "credits endpoint failed")
	case credits.Data.TotalCredits > 0:
		remaining := credits.Data.TotalCredits - credits.Data.TotalUsage
		if credits.Data.RemainingBalance != nil {
			remaining = *credits.Data.RemainingBalance
		}
		if !keyPercent {
			r.RemainingOf("Credits", remaining, credits.Data.TotalCredits)
		}
		r.Linef("Balance", "$%.2f of $%.2f", remaining, credits.Data.TotalCredits)
	}

	if key.UsageDaily != nil {
		r.Linef("Today", "$%.2f", *key.UsageDaily)
	}
	if key.UsageWeekly != nil {
		r.Linef("Week", "$%.2f", *key.UsageWeekly)
	}
	if key.UsageMonthly != nil {
		r.Linef("Month", "$%.2f", *key.UsageMonthly)
	}

	if key.IsFreeTier {
		r.Linef("Tier", "free")
	} else {
		r.Linef("Tier", "paid")
	}
	if key.RateLimit.Requests > 0 {
		r.Linef("Limit", "%d req / %s", key.RateLimit.Requests, key.RateLimit.Interval)
	}
	if r.Empty() {
		r.Linef("Usage", "$%.4f lifetime", key.Usage)
	}
	return r.String(), nil
}

func (p *Provider) fetchKey(ctx context.Context, apiKey string) (*keyData, error) {
	for _, endpoint := range []string{"/key", "/auth/key"} {
		var resp keyResponse
		code, _, err := shared.GetJSON(ctx, p.cfg.BaseURL+endpoint, apiKey, nil, &resp)
		if err != nil {
			return nil, fmt.Errorf("key endpoint: %w", err)
		}
		switch code {
		case http.StatusOK:
			return &resp.Data, nil
		case http.StatusNotFound:
			continue
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("check API key (HTTP %d)", code)
		default:
			return nil, fmt.Errorf("key endpoint returned HTTP %d", code)
		}
	}
	return nil, fmt.Errorf("key endpoint not found (HTTP 404)")
}

func (p *Provider) fetchCredits(ctx context.Context, apiKey string) (*creditsResponse, error) {
	var resp creditsResponse
	code, _, err := shared.GetJSON(ctx, p.cfg.BaseURL+"/credits", apiKey, nil, &resp)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", code)
	}
	return &resp, nil
}
