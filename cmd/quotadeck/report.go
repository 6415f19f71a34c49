package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/janekbaraniewski/quotadeck/internal/core"
)

// runOnce drives a single query cycle and prints a plain-text report,
// for shell prompts and cron jobs that want the numbers without the
// dashboard.
func runOnce(engine *core.Engine) int {
	snap, _ := engine.Refresh(context.Background())
	return writeReport(os.Stdout, snap)
}

// writeReport renders one snapshot and returns the process exit code:
// 1 when the cycle ended in an error, 0 otherwise.
func writeReport(w io.Writer, snap core.Snapshot) int {
	sections := core.ParseSections(snap.Content)

	updated := "never"
	if !snap.Timestamp.IsZero() {
		updated = snap.Timestamp.Format("15:04:05")
	}
	fmt.Fprintf(w, "state=%s updated=%s health=%d%%\n", snap.Status, updated, core.HealthScore(sections))

	for _, sec := range sections {
		fmt.Fprintf(w, "  %-8s %s\n", sec.Status, sec.Name)
	}

	switch {
	case snap.Content != "":
		fmt.Fprintf(w, "\n%s\n", snap.Content)
	case snap.Message != "":
		fmt.Fprintf(w, "\n%s\n", snap.Message)
	}

	if snap.Status == core.StatusError {
		return 1
	}
	return 0
}
