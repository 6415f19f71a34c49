package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newStubServer(t *testing.T, key404 bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/key":
			if key404 {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fallthrough
		case "/auth/key":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{
				"data": {
					"label": "test-key",
					"usage": 5.25,
					"limit": 100.0,
					"limit_remaining": 94.75,
					"usage_daily": 0.42,
					"usage_weekly": 3.10,
					"usage_monthly": 5.25,
					"is_free_tier": false,
					"rate_limit": {"requests": 200, "interval": "10s"}
				}
			}`))
		case "/credits":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{
				"data": {
					"total_credits": 100.0,
					"total_usage": 5.25,
					"remaining_balance": 94.75
				}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestQueryReportsCreditsAndSpend(t *testing.T) {
	srv := newStubServer(t, false)
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, APIKey: "sk-or-test"})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	for _, want := range []string{
		"Credits      95% remaining",
		"Balance      $94.75 of $100.00",
		"Today        $0.42",
		"Week         $3.10",
		"Month        $5.25",
		"Tier         paid",
		"Limit        200 req / 10s",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Query() output missing %q\ngot:\n%s", want, text)
		}
	}
}

func TestQueryFallsBackToAuthKey(t *testing.T) {
	srv := newStubServer(t, true)
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, APIKey: "sk-or-test"})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if !strings.Contains(text, "Credits      95% remaining") {
		t.Errorf("Query() output missing credits line after fallback:\n%s", text)
	}
}

func TestQuerySkipsWithoutAPIKey(t *testing.T) {
	t.Setenv("QUOTADECK_TEST_OPENROUTER_KEY", "")

	p := NewWith(Config{APIKeyEnv: "QUOTADECK_TEST_OPENROUTER_KEY"})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	want := "Auth         skipped (set QUOTADECK_TEST_OPENROUTER_KEY)"
	if text != want {
		t.Errorf("Query() = %q, want %q", text, want)
	}
}

func TestQueryFailsOnBadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid key", "code": 401}}`))
	}))
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, APIKey: "sk-or-bad"})
	_, err := p.Query(context.Background())
	if err == nil || !strings.Contains(err.Error(), "check API key") {
		t.Errorf("Query() error = %v, want check API key", err)
	}
}

func TestQueryToleratesCreditsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/key":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"data": {"usage": 1.5, "limit": 10.0, "is_free_tier": true, "rate_limit": {}}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	p := NewWith(Config{BaseURL: srv.URL, APIKey: "sk-or-test"})
	text, err := p.Query(context.Background())
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if !strings.Contains(text, "Credits      85% remaining") {
		t.Errorf("Query() output missing key-derived credits line:\n%s", text)
	}
	if !strings.Contains(text, "Balance      skipped (credits endpoint failed)") {
		t.Errorf("Query() output missing balance skip line:\n%s", text)
	}
	if !strings.Contains(text, "Tier         free") {
		t.Errorf("Query() output missing tier line:\n%s", text)
	}
}
