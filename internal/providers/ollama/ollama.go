// Package ollama reports on the local Ollama server: version, model
// inventory, loaded models, and message counts from the desktop app's
// sqlite database when present. There is no quota to track, so every
// failure here is soft.
package ollama

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/janekbaraniewski/quotadeck/internal/providers/providerbase"
	"github.com/janekbaraniewski/quotadeck/internal/providers/shared"
)

const defaultBaseURL = "http://127.0.0.1:11434"

type versionResponse struct {
	Version string `json:"version"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	} `json:"models"`
}

type processResponse struct {
	Models []struct {
		Name     string `json:"name"`
		Size     int64  `json:"size"`
		SizeVRAM int64  `json:"size_vram"`
	} `json:"models"`
}

type Config struct {
	BaseURL string
	DBPath  string
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
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDesktopDBPath()
	}
	return &Provider{Base: providerbase.New("ollama", "Ollama"), cfg: cfg}
}

func defaultDesktopDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Ollama", "db.sqlite")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Ollama", "db.sqlite")
		}
		return filepath.Join(home, "AppData", "Roaming", "Ollama", "db.sqlite")
	default:
		return filepath.Join(home, ".local", "share", "Ollama", "db.sqlite")
	}
}

func (p *Provider) Query(ctx context.Context) (string, error) {
	ctx, cancel := p.Bound(ctx)
	defer cancel()

	var r shared.Report

	var version versionResponse
	code, _, err := shared.GetJSON(ctx, p.cfg.BaseURL+"/api/version", "", nil, &version)
	if err != nil || code != http.StatusOK {
		r.Skipped("Server", "not reachable at "+p.cfg.BaseURL)
		return r.String(), nil
	}
	r.Linef("Server", "v%s", strings.TrimPrefix(version.Version, "v"))

	var tags tagsResponse
	if code, _, err := shared.GetJSON(ctx, p.cfg.BaseURL+"/api/tags", "", nil, &tags); err == nil && code == http.StatusOK {
		r.Linef("Models", "%d", len(tags.Models))
	} else {
		r.Skipped("Models", "tags endpoint failed")
	}

	var ps processResponse
	if code, _, err := shared.GetJSON(ctx, p.cfg.BaseURL+"/api/ps", "", nil, &ps); err == nil && code == http.StatusOK {
		if len(ps.Models) == 0 {
			r.Linef("Loaded", "none")
		} else {
			names := make([]string, 0, len(ps.Models))
			for _, m := range ps.Models {
				names = append(names, m.Name)
			}
			r.Linef("Loaded", "%d (%s)", len(ps.Models), strings.Join(names, ", "))
		}
	}

	p.appendDesktopCounts(ctx, &r)
	return r.String(), nil
}

// appendDesktopCounts reads today's activity out of the desktop app's
// sqlite database. The DB is opened read-only so a running app is
// never blocked.
func (p *Provider) appendDesktopCounts(ctx context.Context, r *shared.Report) {
	if p.cfg.DBPath == "" {
		return
	}
	if info, err := os.Stat(p.cfg.DBPath); err != nil || info.IsDir() {
		return
	}

	db, err := sql.Open("sqlite3", "file:"+p.cfg.DBPath+"?mode=ro")
	if err != nil {
		log.Printf("[ollama] opening desktop db: %v", err)
		return
	}
	defer db.Close()

	if n, err := queryCount(ctx, db,
		`SELECT COUNT(*) FROM messages WHERE date(created_at, 'localtime') = date('now', 'localtime')`); err == nil {
		r.Linef("Messages", "%d today", n)
	}
	if n, err := queryCount(ctx, db,
		`SELECT COUNT(*) FROM chats WHERE date(created_at, 'localtime') = date('now', 'localtime')`); err == nil {
		r.Linef("Chats", "%d today", n)
	}
}

func queryCount(ctx context.Context, db *sql.DB, query string) (int64, error) {
	var count int64
	if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
