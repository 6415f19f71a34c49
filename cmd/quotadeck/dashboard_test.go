package main

import (
	"testing"

	"github.com/janekbaraniewski/quotadeck/internal/appupdate"
)

func TestUpdateNotice(t *testing.T) {
	got := updateNotice(appupdate.Result{
		LatestVersion: "v1.4.0",
		UpgradeHint:   "brew upgrade janekbaraniewski/tap/quotadeck",
	})
	want := "v1.4.0 available: brew upgrade janekbaraniewski/tap/quotadeck"
	if got != want {
		t.Errorf("updateNotice() = %q, want %q", got, want)
	}
}
