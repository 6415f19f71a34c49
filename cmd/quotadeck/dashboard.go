package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/janekbaraniewski/quotadeck/internal/appupdate"
	"github.com/janekbaraniewski/quotadeck/internal/config"
	"github.com/janekbaraniewski/quotadeck/internal/core"
	"github.com/janekbaraniewski/quotadeck/internal/tui"
	"github.com/janekbaraniewski/quotadeck/internal/version"
)

func runDashboard(cfg config.Config, engine *core.Engine, interval time.Duration, demo bool) {
	tui.SetThemeByName(cfg.Theme)

	model := tui.NewModel(engine, interval, tui.ParseDisplayStyle(cfg.DisplayStyle))
	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notifyUpdate(ctx, program)

	// Demo mode never reads config files, so there is nothing to watch.
	if !demo {
		if err := watchConfigDir(ctx, program.Send); err != nil {
			log.Printf("config watcher: %v", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("TUI error: %v", err)
	}
}

// notifyUpdate pushes a header notice when GitHub carries a newer
// release. Failures are logged and otherwise invisible.
func notifyUpdate(ctx context.Context, program *tea.Program) {
	result, err := appupdate.Check(ctx, appupdate.CheckOptions{CurrentVersion: version.Version})
	if err != nil {
		log.Printf("[update] %v", err)
		return
	}
	if !result.UpdateAvailable {
		return
	}
	program.Send(tui.UpdateNoticeMsg(updateNotice(result)))
}

func updateNotice(result appupdate.Result) string {
	return fmt.Sprintf("%s available: %s", result.LatestVersion, result.UpgradeHint)
}
