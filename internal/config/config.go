// Package config persists dashboard settings and provider credentials
// under the user's config directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"
)

const (
	appDirName = "quotadeck"

	defaultRefreshMS = 30000
	// minRefreshMS is the floor. Anything faster hammers provider APIs
	// for no visible benefit.
	minRefreshMS = 1000
)

type UIConfig struct {
	RefreshIntervalMS int `json:"refresh_interval_ms"`
}

// ProviderSettings overrides one provider's construction. A nil Enabled
// means the provider follows the registry default.
type ProviderSettings struct {
	Enabled   *bool             `json:"enabled,omitempty"`
	BaseURL   string            `json:"base_url,omitempty"`
	APIKeyEnv string            `json:"api_key_env,omitempty"`
	Token     string            `json:"token,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

type Config struct {
	UI           UIConfig                    `json:"ui"`
	Theme        string                      `json:"theme"`
	DisplayStyle string                      `json:"display_style"`
	AutoDetect   bool                        `json:"auto_detect"`
	Providers    map[string]ProviderSettings `json:"providers,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		UI:           UIConfig{RefreshIntervalMS: defaultRefreshMS},
		Theme:        "Catppuccin Mocha",
		DisplayStyle: "detail",
		AutoDetect:   true,
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), appDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDirName)
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.UI.RefreshIntervalMS <= 0 {
		cfg.UI.RefreshIntervalMS = defaultRefreshMS
	}
	if cfg.UI.RefreshIntervalMS < minRefreshMS {
		cfg.UI.RefreshIntervalMS = minRefreshMS
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultConfig().Theme
	}
	if cfg.DisplayStyle == "" {
		cfg.DisplayStyle = DefaultConfig().DisplayStyle
	}

	return cfg, nil
}

// RefreshInterval resolves the effective refresh cadence. The
// QUOTADECK_REFRESH_MS environment variable beats the file value; both
// are floored at one second.
func (c Config) RefreshInterval() time.Duration {
	ms := c.UI.RefreshIntervalMS
	if env := os.Getenv("QUOTADECK_REFRESH_MS"); env != "" {
		if v, err := strconv.Atoi(env); err == nil && v > 0 {
			ms = v
		}
	}
	if ms < minRefreshMS {
		ms = minRefreshMS
	}
	return time.Duration(ms) * time.Millisecond
}

// ProviderEnabled reports whether a provider should be constructed.
// Providers are on unless the config turns them off.
func (c Config) ProviderEnabled(id string) bool {
	s, ok := c.Providers[id]
	if !ok || s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// Provider returns the settings block for one provider id, zero-valued
// when absent.
func (c Config) Provider(id string) ProviderSettings {
	return c.Providers[id]
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveTheme persists a theme name into the config file (read-modify-write).
func SaveTheme(theme string) error {
	return SaveThemeTo(ConfigPath(), theme)
}

func SaveThemeTo(path string, theme string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Theme = theme
	return SaveTo(path, cfg)
}

// SaveDisplayStyle persists the display style the same way.
func SaveDisplayStyle(style string) error {
	return SaveDisplayStyleTo(ConfigPath(), style)
}

func SaveDisplayStyleTo(path string, style string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.DisplayStyle = style
	return SaveTo(path, cfg)
}

// SaveProviderSettings persists detection results for one provider
// without clobbering concurrent edits to other sections.
func SaveProviderSettings(id string, settings ProviderSettings) error {
	return SaveProviderSettingsTo(ConfigPath(), id, settings)
}

func SaveProviderSettingsTo(path, id string, settings ProviderSettings) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderSettings)
	}
	cfg.Providers[id] = settings
	return SaveTo(path, cfg)
}
