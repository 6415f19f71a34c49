package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/janekbaraniewski/quotadeck/internal/core"
)

func TestWriteReportMixedSections(t *testing.T) {
	snap := core.Snapshot{
		Timestamp: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		Status:    core.StatusOK,
		Content:   "## OpenAI\nRequests     80% remaining\n\n## Mistral\nQuota        skipped (no token)",
	}

	var buf bytes.Buffer
	code := writeReport(&buf, snap)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	out := buf.String()
	wants := []string{
		"state=ok updated=09:30:00 health=75%\n",
		"  ok       OpenAI\n",
		"  warning  Mistral\n",
		"## OpenAI\nRequests     80% remaining",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportErrorExitsNonzero(t *testing.T) {
	snap := core.Snapshot{
		Timestamp: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		Status:    core.StatusError,
		Content:   "## OpenAI\nRequests     80% remaining\n\n## Cursor\nERROR: dashboard api failed",
		Message:   "1 provider(s) failed.",
	}

	var buf bytes.Buffer
	code := writeReport(&buf, snap)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	out := buf.String()
	if !strings.Contains(out, "state=error") {
		t.Errorf("report missing error state:\n%s", out)
	}
	if !strings.Contains(out, "  error    Cursor\n") {
		t.Errorf("report missing failed section line:\n%s", out)
	}
	if !strings.Contains(out, "ERROR: dashboard api failed") {
		t.Errorf("report should carry the raw content:\n%s", out)
	}
}

func TestWriteReportFallsBackToMessage(t *testing.T) {
	snap := core.Snapshot{
		Status:  core.StatusError,
		Message: "duplicate provider id \"openai\"",
	}

	var buf bytes.Buffer
	code := writeReport(&buf, snap)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "state=error updated=never health=0%\n") {
		t.Errorf("header = %q", out)
	}
	if !strings.Contains(out, "duplicate provider id") {
		t.Errorf("report missing message fallback:\n%s", out)
	}
}
