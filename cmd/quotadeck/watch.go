package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/janekbaraniewski/quotadeck/internal/config"
	"github.com/janekbaraniewski/quotadeck/internal/core"
	"github.com/janekbaraniewski/quotadeck/internal/detect"
	"github.com/janekbaraniewski/quotadeck/internal/providers"
	"github.com/janekbaraniewski/quotadeck/internal/tui"
)

// watchDebounce absorbs the burst of events an editor emits while
// saving a file.
const watchDebounce = 500 * time.Millisecond

// watchConfigDir rebuilds the provider registry whenever settings.json
// or credentials.json change, so edited keys reach the dashboard
// without a restart. Editors replace files with rename+create, which
// only the parent directory sees, so that is what gets watched.
func watchConfigDir(ctx context.Context, send func(tea.Msg)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(config.ConfigDir()); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !watchedFile(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				log.Printf("[watch] %s %s", event.Op, filepath.Base(event.Name))
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, func() {
					send(reloadMsg())
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[watch] %v", err)
			}
		}
	}()
	return nil
}

func watchedFile(path string) bool {
	switch filepath.Base(path) {
	case "settings.json", "credentials.json":
		return true
	}
	return false
}

// reloadMsg rebuilds the registry from whatever is on disk now.
// Detection runs again so a freshly added credential re-enables its
// provider without an explicit config entry. When the reload fails the
// dashboard still gets a plain refresh of the old registry.
func reloadMsg() tea.Msg {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("[watch] reload config: %v", err)
		return tui.RefreshRequestMsg{}
	}
	if cfg.AutoDetect {
		cfg = detect.AutoDetect().Apply(cfg)
	}
	creds, err := config.LoadCredentials()
	if err != nil {
		log.Printf("[watch] reload credentials: %v", err)
		return tui.RefreshRequestMsg{}
	}
	return tui.ProvidersReloadedMsg{Engine: core.NewEngine(providers.FromConfig(cfg, creds))}
}
