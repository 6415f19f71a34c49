// Package claudeweb reports subscription usage for Claude web and
// desktop accounts. It rides the desktop app's session cookies, so it
// surfaces the same limit buckets the claude.ai settings page shows.
package claudeweb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/janekbaraniewski/quotadeck/internal/parsers"
	"github.com/janekbaraniewski/quotadeck/internal/providers/providerbase"
	"github.com/janekbaraniewski/quotadeck/internal/providers/shared"
)

const (
	defaultBaseURL = "https://claude.ai"

	// The usage endpoint only answers requests that look like the web
	// client, so the browser headers are part of the contract.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

type usageBucket struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    string  `json:"resets_at"`
}

type usageResponse struct {
	FiveHour       *usageBucket `json:"five_hour"`
	SevenDay       *usageBucket `json:"seven_day"`
	SevenDaySonnet *usageBucket `json:"seven_day_sonnet"`
	SevenDayOpus   *usageBucket `json:"seven_day_opus"`
}

// accountFile is the slice of ~/.claude.json this provider needs.
type accountFile struct {
	OAuthAccount struct {
		EmailAddress     string `json:"emailAddress"`
		OrganizationUUID string `json:"organizationUuid"`
	} `json:"oauthAccount"`
}

// Config overrides the session discovery chain. Cookies and OrgUUID
// let tests bypass the macOS keychain entirely.
type Config struct {
	BaseURL       string
	CookiesDBPath string
	AccountPath   string
	OrgUUID       string
	Cookies       map[string]string
}

type Provider struct {
	providerbase.Base
	cfg Config
}

func New() *Provider {
	return NewWith(Config{})
}

func NewWith(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.AccountPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.AccountPath = filepath.Join(home, ".claude.json")
		}
	}
	return &Provider{
		Base: providerbase.New("claude_web", "Claude Web"),
		cfg:  cfg,
	}
}

func (p *Provider) Query(ctx context.Context) (string, error) {
	ctx, cancel := p.Bound(ctx)
	defer cancel()

	cookies := p.cfg.Cookies
	if cookies == nil {
		var err error
		cookies, err = sessionCookies(p.cfg.CookiesDBPath)
		if err != nil {
			log.Printf("[claude_web] session cookies: %v", err)
			var r shared.Report
			r.Skipped("Session", skipReason(err))
			return r.String(), nil
		}
	}

	org, email := p.resolveOrg(cookies)
	if org == "" {
		var r shared.Report
		r.Skipped("Session", "no organization id found")
		return r.String(), nil
	}

	usage, err := p.fetchUsage(ctx, org, cookies)
	if err != nil {
		return "", err
	}

	now := time.Now()
	var r shared.Report
	appendBucket(&r, "Session", usage.FiveHour, now)
	appendBucket(&r, "Week", usage.SevenDay, now)
	appendBucket(&r, "Sonnet", usage.SevenDaySonnet, now)
	appendBucket(&r, "Opus", usage.SevenDayOpus, now)

	if usage.FiveHour != nil {
		if t := parsers.ParseResetTime(usage.FiveHour.ResetsAt); t != nil {
			if s := parsers.FormatReset(t, now); s != "" {
				r.Linef("Reset", "%s", s)
			}
		}
	}
	if email != "" {
		r.Linef("Account", "%s", email)
	}
	if r.Empty() {
		r.Linef("Usage", "no usage buckets in response")
	}
	return r.String(), nil
}

// appendBucket converts server-side utilization into the remaining
// percentage. A reset timestamp at or before now means the bucket value
// is the pre-reset one the server has not rolled yet, so it counts as
// fully available.
func appendBucket(r *shared.Report, name string, b *usageBucket, now time.Time) {
	if b == nil {
		return
	}
	util := b.Utilization
	if t := parsers.ParseResetTime(b.ResetsAt); t != nil && !t.After(now) {
		util = 0
	}
	r.Remaining(name, 100-util)
}

// resolveOrg prefers the explicit override, then the account file the
// desktop app maintains, then the lastActiveOrg cookie.
func (p *Provider) resolveOrg(cookies map[string]string) (org, email string) {
	if p.cfg.OrgUUID != "" {
		return p.cfg.OrgUUID, ""
	}
	if p.cfg.AccountPath != "" {
		if raw, err := os.ReadFile(p.cfg.AccountPath); err == nil {
			var acct accountFile
			if json.Unmarshal(raw, &acct) == nil && acct.OAuthAccount.OrganizationUUID != "" {
				return acct.OAuthAccount.OrganizationUUID, acct.OAuthAccount.EmailAddress
			}
		}
	}
	return cookies["lastActiveOrg"], ""
}

func (p *Provider) fetchUsage(ctx context.Context, org string, cookies map[string]string) (*usageResponse, error) {
	url := fmt.Sprintf("%s/api/organizations/%s/usage", p.cfg.BaseURL, org)
	headers := map[string]string{
		"Cookie":                    cookieHeader(cookies),
		"User-Agent":                userAgent,
		"Content-Type":              "application/json",
		"Referer":                   p.cfg.BaseURL + "/settings/usage",
		"anthropic-client-platform": "web_claude_ai",
	}

	var usage usageResponse
	code, _, err := shared.GetJSON(ctx, url, "", headers, &usage)
	if err != nil {
		return nil, fmt.Errorf("fetching usage: %w", err)
	}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, fmt.Errorf("session expired (HTTP %d), sign in to the desktop app", code)
	case code != http.StatusOK:
		return nil, fmt.Errorf("usage endpoint returned HTTP %d", code)
	}
	return &usage, nil
}

// cookieHeader joins cookies in a stable order.
func cookieHeader(cookies map[string]string) string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+cookies[name])
	}
	return strings.Join(parts, "; ")
}

func skipReason(err error) string {
	if errors.Is(err, errNotDarwin) {
		return "macOS desktop app only"
	}
	return "desktop session not found"
}
