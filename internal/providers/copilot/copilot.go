// Package copilot reads the GitHub Copilot OAuth token that editor
// integrations store under the github-copilot config dir and asks the
// internal user endpoint for quota snapshots. There is no public
// quota API, so this mirrors what the editor plugins themselves do.
package copilot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/janekbaraniewski/quotadeck/internal/providers/providerbase"
	"github.com/janekbaraniewski/quotadeck/internal/providers/shared"
)

const defaultBaseURL = "https://api.github.com"

// editorVersion is sent because the internal endpoint rejects
// requests that do not look like they come from an editor plugin.
const editorVersion = "vscode/1.96.0"

type quotaSnapshot struct {
	Entitlement      float64 `json:"entitlement"`
	Remaining        float64 `json:"remaining"`
	PercentRemaining float64 `json:"percent_remaining"`
	Unlimited        bool    `json:"unlimited"`
}

type userResponse struct {
	CopilotPlan    string                   `json:"copilot_plan"`
	QuotaResetDate string                   `json:"quota_reset_date"`
	QuotaSnapshots map[string]quotaSnapshot `json:"quota_snapshots"`
}

type storedApp struct {
	User       string `json:"user"`
	OAuthToken string `json:"oauth_token"`
}

type Config struct {
	BaseURL   string
	Token     string
	ConfigDir string
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
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = defaultConfigDir()
	}
	return &Provider{Base: providerbase.New("copilot", "GitHub Copilot"), cfg: cfg}
}

func defaultConfigDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "github-copilot")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "github-copilot")
}

func (p *Provider) Query(ctx context.Context) (string, error) {
	ctx, cancel := p.Bound(ctx)
	defer cancel()

	token, user := p.resolveToken()
	if token == "" {
		var r shared.Report
		r.Skipped("Auth", "no oauth token, sign in from an editor")
		return r.String(), nil
	}

	headers := map[string]string{
		"Authorization":  "token " + token,
		"Editor-Version": editorVersion,
	}
	var resp userResponse
	code, _, err := shared.GetJSON(ctx, p.cfg.BaseURL+"/copilot_internal/user", "", headers, &resp)
	if err != nil {
		return "", fmt.Errorf("user endpoint: %w", err)
	}
	switch code {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("check oauth token (HTTP %d)", code)
	default:
		return "", fmt.Errorf("user endpoint returned HTTP %d", code)
	}

	var r shared.Report
	appendQuota(&r, "Premium", resp.QuotaSnapshots["premium_interactions"])
	appendQuota(&r, "Chat", resp.QuotaSnapshots["chat"])
	appendQuota(&r, "Completions", resp.QuotaSnapshots["completions"])

	if resp.QuotaResetDate != "" {
		r.Linef("Reset", "%s", resp.QuotaResetDate)
	}
	if resp.CopilotPlan != "" {
		r.Linef("Plan", "%s", resp.CopilotPlan)
	}
	if user != "" {
		r.Linef("Account", "%s", user)
	}
	if r.Empty() {
		r.Linef("Status", "no quota snapshots in response")
	}
	return r.String(), nil
}

func appendQuota(r *shared.Report, name string, s quotaSnapshot) {
	switch {
	case s.Unlimited:
		r.Linef(name, "unlimited")
	case s.Entitlement > 0:
		r.Remaining(name, s.PercentRemaining)
	}
}

// resolveToken finds an OAuth token the way the editor plugins store
// it: apps.json first, hosts.json for older installs.
func (p *Provider) resolveToken() (token, user string) {
	if p.cfg.Token != "" {
		return p.cfg.Token, ""
	}
	for _, file := range []string{"apps.json", "hosts.json"} {
		data, err := os.ReadFile(filepath.Join(p.cfg.ConfigDir, file))
		if err != nil {
			continue
		}
		var apps map[string]storedApp
		if err := json.Unmarshal(data, &apps); err != nil {
			continue
		}
		for host, app := range apps {
			if strings.HasPrefix(host, "github.com") && app.OAuthToken != "" {
				return app.OAuthToken, app.User
			}
		}
	}
	return "", ""
}
