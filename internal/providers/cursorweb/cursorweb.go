// Package cursorweb reports Cursor plan usage. The session token comes
// from the editor's state database or from whichever installed browser
// holds a cursor.com login; local editor stats fill in when the
// dashboard API is out of reach.
package cursorweb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"
	_ "github.com/mattn/go-sqlite3"

	"github.com/janekbaraniewski/quotadeck/internal/parsers"
	"github.com/janekbaraniewski/quotadeck/internal/providers/providerbase"
	"github.com/janekbaraniewski/quotadeck/internal/providers/shared"
)

const (
	defaultBaseURL    = "https://api2.cursor.sh"
	sessionCookieName = "WorkosCursorSessionToken"
)

type planUsage struct {
	TotalSpend       float64 `json:"totalSpend"`
	IncludedSpend    float64 `json:"includedSpend"`
	Limit            float64 `json:"limit"`
	TotalPercentUsed float64 `json:"totalPercentUsed"`
}

type spendLimitUsage struct {
	PooledLimit     float64 `json:"pooledLimit"`
	PooledUsed      float64 `json:"pooledUsed"`
	PooledRemaining float64 `json:"pooledRemaining"`
	LimitType       string  `json:"limitType"`
}

type periodUsageResponse struct {
	BillingCycleEnd string          `json:"billingCycleEnd"`
	PlanUsage       planUsage       `json:"planUsage"`
	SpendLimitUsage spendLimitUsage `json:"spendLimitUsage"`
	DisplayMessage  string          `json:"displayMessage"`
}

type planInfoResponse struct {
	PlanInfo struct {
		PlanName string `json:"planName"`
		Price    string `json:"price"`
	} `json:"planInfo"`
}

// dailyStats is the JSON blob Cursor keeps per day under the
// aiCodeTracking.dailyStats.v1.5.<date> key in state.vscdb.
type dailyStats struct {
	TabSuggestedLines      int `json:"tabSuggestedLines"`
	TabAcceptedLines       int `json:"tabAcceptedLines"`
	ComposerSuggestedLines int `json:"composerSuggestedLines"`
	ComposerAcceptedLines  int `json:"composerAcceptedLines"`
}

// Config overrides session discovery. Token skips both the editor
// database and the browser cookie stores.
type Config struct {
	BaseURL     string
	Token       string
	StateDBPath string
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
	if cfg.StateDBPath == "" {
		cfg.StateDBPath = defaultStateDBPath()
	}
	return &Provider{
		Base: providerbase.New("cursor_web", "Cursor"),
		cfg:  cfg,
	}
}

// readBrowserCookies is swapped out in tests so they never touch real
// browser profiles.
var readBrowserCookies = func(ctx context.Context) []*kooky.Cookie {
	cookies, _ := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix("cursor.com"), kooky.Name(sessionCookieName))
	return cookies
}

func (p *Provider) Query(ctx context.Context) (string, error) {
	ctx, cancel := p.Bound(ctx)
	defer cancel()

	token, source := p.resolveToken(ctx)

	var apiErr error
	if token != "" {
		text, err := p.queryDashboard(ctx, token)
		if err == nil {
			return text, nil
		}
		apiErr = err
		log.Printf("[cursor_web] dashboard api with %s token: %v", source, err)
	}

	stats, email, ok := p.readLocal(ctx)
	if !ok {
		if apiErr != nil {
			return "", fmt.Errorf("dashboard api failed and no editor state db: %w", apiErr)
		}
		var r shared.Report
		r.Skipped("Session", "no cursor.com login found")
		return r.String(), nil
	}

	var r shared.Report
	if apiErr != nil {
		r.Skipped("Plan", "dashboard api unreachable")
	} else {
		r.Skipped("Plan", "no cursor.com session")
	}
	if stats != nil {
		if stats.TabSuggestedLines > 0 {
			r.Linef("Tab", "%d of %d lines accepted", stats.TabAcceptedLines, stats.TabSuggestedLines)
		}
		if stats.ComposerSuggestedLines > 0 {
			r.Linef("Composer", "%d of %d lines accepted", stats.ComposerAcceptedLines, stats.ComposerSuggestedLines)
		}
	}
	if email != "" {
		r.Linef("Account", "%s", email)
	}
	return r.String(), nil
}

// resolveToken walks the discovery chain: explicit config, then the
// editor's own access token, then a browser session cookie.
func (p *Provider) resolveToken(ctx context.Context) (token, source string) {
	if p.cfg.Token != "" {
		return p.cfg.Token, "config"
	}
	if t := p.stateDBToken(ctx); t != "" {
		return t, "editor"
	}
	for _, c := range readBrowserCookies(ctx) {
		if c != nil && c.Value != "" {
			return c.Value, "browser"
		}
	}
	return "", ""
}

func (p *Provider) queryDashboard(ctx context.Context, token string) (string, error) {
	var period periodUsageResponse
	if err := p.postDashboard(ctx, token, "GetCurrentPeriodUsage", &period); err != nil {
		return "", err
	}

	var r shared.Report
	pu := period.PlanUsage
	r.Remaining("Plan", 100-pu.TotalPercentUsed)
	if pu.Limit > 0 {
		r.Linef("Spend", "$%.2f of $%.2f", pu.TotalSpend/100, pu.Limit/100)
	}

	su := period.SpendLimitUsage
	if su.PooledLimit > 0 {
		r.Linef("Team", "$%.2f of $%.2f", su.PooledUsed/100, su.PooledLimit/100)
	}

	var plan planInfoResponse
	if err := p.postDashboard(ctx, token, "GetPlanInfo", &plan); err != nil {
		log.Printf("[cursor_web] plan info: %v", err)
	} else if plan.PlanInfo.PlanName != "" {
		r.Linef("Tier", "%s", plan.PlanInfo.PlanName)
	}

	if t := parsers.ParseResetTime(period.BillingCycleEnd); t != nil {
		if s := parsers.FormatReset(t, time.Now()); s != "" {
			r.Linef("Reset", "%s", s)
		}
	}
	return r.String(), nil
}

// postDashboard calls one DashboardService method. The RPC surface is
// Connect-style: POST with an empty JSON body.
func (p *Provider) postDashboard(ctx context.Context, token, method string, out any) error {
	url := fmt.Sprintf("%s/aiserver.v1.DashboardService/%s", p.cfg.BaseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	code, _, err := shared.DoJSON(req, out)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("%s returned HTTP %d", method, code)
	}
	return nil
}

func (p *Provider) stateDBToken(ctx context.Context) string {
	db, ok := p.openStateDB()
	if !ok {
		return ""
	}
	defer db.Close()

	var token string
	if err := db.QueryRowContext(ctx, `SELECT value FROM ItemTable WHERE key = 'cursorAuth/accessToken'`).Scan(&token); err != nil {
		return ""
	}
	return token
}

func (p *Provider) readLocal(ctx context.Context) (stats *dailyStats, email string, ok bool) {
	db, ok := p.openStateDB()
	if !ok {
		return nil, "", false
	}
	defer db.Close()

	stats = readDailyStats(ctx, db)
	if err := db.QueryRowContext(ctx, `SELECT value FROM ItemTable WHERE key = 'cursorAuth/cachedEmail'`).Scan(&email); err != nil {
		email = ""
	}
	return stats, email, true
}

// openStateDB opens state.vscdb read-only. The editor keeps it in WAL
// mode, so the journal mode has to match.
func (p *Provider) openStateDB() (*sql.DB, bool) {
	path := p.cfg.StateDBPath
	if path == "" {
		return nil, false
	}
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", path))
	if err != nil {
		log.Printf("[cursor_web] opening state db: %v", err)
		return nil, false
	}
	return db, true
}

// readDailyStats tries today first, then yesterday. Cursor only writes
// the row once the editor has been used that day.
func readDailyStats(ctx context.Context, db *sql.DB) *dailyStats {
	for _, day := range []time.Time{time.Now(), time.Now().AddDate(0, 0, -1)} {
		key := "aiCodeTracking.dailyStats.v1.5." + day.Format("2006-01-02")
		var value string
		if err := db.QueryRowContext(ctx, `SELECT value FROM ItemTable WHERE key = ?`, key).Scan(&value); err != nil {
			continue
		}
		var stats dailyStats
		if err := json.Unmarshal([]byte(value), &stats); err != nil {
			log.Printf("[cursor_web] daily stats %s: %v", key, err)
			return nil
		}
		return &stats
	}
	return nil
}

func defaultStateDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	var base string
	switch runtime.GOOS {
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support", "Cursor")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			base = filepath.Join(appData, "Cursor")
		} else {
			base = filepath.Join(home, "AppData", "Roaming", "Cursor")
		}
	default:
		base = filepath.Join(home, ".config", "Cursor")
	}
	return filepath.Join(base, "User", "globalStorage", "state.vscdb")
}
