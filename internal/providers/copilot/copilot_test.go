package copilot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const userJSON = `{
	"copilot_plan": "individual",
	"quota_reset_date": "2026-09-01",
	"quota_snapshots": {
		"chat": {"unlimited": true},
		"completions": {"unlimited": true},
		"premium_interactions": {
			"entitlement": 300,
			"remaining": 240.5,
			"percent_remaining": 80.17,
			"unlimited": false
		}
	}
}`

func writeTokenFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestQueryReportsQuotaSnapshots(t *testing.T) {
	var gotAuth, gotEditor string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotEditor = r.Header.Get("Editor-Version")
		if r.URL.Path != "/copilot_internal/user" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(userJSON))
	}))
	defer srv.Close()

	dir := writeTokenFile(t, "apps.json",
		`{"github.com:Iv1.abc": {"user": "jdoe", "oauth_token": "gho_test"}}`)

	p := NewWith(Config{BaseURL: srv.URL, ConfigDir: dir})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	if gotAuth != "token gho_test" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "token gho_test")
	}
	if gotEditor == "" {
		t.Error("Editor-Version header not sent")
	}
	for _, want := range []string{
		"Premium      80% remaining",
		"Chat         unlimited",
		"Completions  unlimited",
		"Reset        2026-09-01",
		"Plan         individual",
		"Account      jdoe",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Query() output missing %q\ngot:\n%s", want, text)
		}
	}
}

func TestQueryFallsBackToHostsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(userJSON))
	}))
	defer srv.Close()

	dir := writeTokenFile(t, "hosts.json",
		`{"github.com": {"user": "jdoe", "oauth_token": "gho_legacy"}}`)

	p := NewWith(Config{BaseURL: srv.URL, ConfigDir: dir})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if !strings.Contains(text, "Premium      80% remaining") {
		t.Errorf("Query() output missing premium line:\n%s", text)
	}
}

func TestQuerySkipsWithoutToken(t *testing.T) {
	p := NewWith(Config{ConfigDir: t.TempDir()})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	want := "Auth         skipped (no oauth token, sign in from an editor)"
	if text != want {
		t.Errorf("Query() = %q, want %q", text, want)
	}
}

func TestQueryFailsOnBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, Token: "gho_stale"})
	_, err := p.Query(context.Background())
	if err == nil || !strings.Contains(err.Error(), "check oauth token") {
		t.Errorf("Query() error = %v, want check oauth token", err)
	}
}
