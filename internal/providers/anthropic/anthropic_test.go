package anthropic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestQueryParsesRateLimitHeaders(t *testing.T) {
	reset := time.Now().Add(45 * time.Second).UTC().Format(time.RFC3339)
	var gotKey, gotVersion, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("anthropic-ratelimit-requests-limit", "1000")
		w.Header().Set("anthropic-ratelimit-requests-remaining", "900")
		w.Header().Set("anthropic-ratelimit-requests-reset", reset)
		w.Header().Set("anthropic-ratelimit-tokens-limit", "100000")
		w.Header().Set("anthropic-ratelimit-tokens-remaining", "80000")
		w.Header().Set("anthropic-ratelimit-tokens-reset", reset)
		w.WriteHeader(http.StatusBadRequest) // bare GET is rejected but still carries headers
		w.Write([]byte(`{"error": "invalid request"}`))
	}))
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, APIKey: "sk-ant-test"})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	if gotKey != "sk-ant-test" {
		t.Errorf("x-api-key = %q, want %q", gotKey, "sk-ant-test")
	}
	if gotVersion != apiVersion {
		t.Errorf("anthropic-version = %q, want %q", gotVersion, apiVersion)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
	for _, want := range []string{
		"Requests     90% remaining",
		"Tokens       80% remaining",
		"Reset        in ",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Query() output missing %q\ngot:\n%s", want, text)
		}
	}
}

func TestQuerySkipsWithoutAPIKey(t *testing.T) {
	t.Setenv("QUOTADECK_TEST_ANTHROPIC_KEY", "")

	p := NewWith(Config{APIKeyEnv: "QUOTADECK_TEST_ANTHROPIC_KEY"})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	want := "Auth         skipped (set QUOTADECK_TEST_ANTHROPIC_KEY)"
	if text != want {
		t.Errorf("Query() = %q, want %q", text, want)
	}
}

func TestQueryFailsOnBadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"type": "authentication_error"}}`))
	}))
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, APIKey: "sk-ant-bad"})
	_, err := p.Query(context.Background())
	if err == nil || !strings.Contains(err.Error(), "check API key") {
		t.Errorf("Query() error = %v, want check API key", err)
	}
}

func TestQueryNotesMissingHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, APIKey: "sk-ant-test"})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	want := "Probe        no rate-limit headers (HTTP 400)"
	if text != want {
		t.Errorf("Query() = %q, want %q", text, want)
	}
}
