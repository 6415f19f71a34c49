package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a provider response is read. Usage
// payloads are small; anything larger is a misbehaving endpoint.
const maxBodyBytes = 1 << 20

// DoJSON executes a prepared request and decodes a 2xx JSON body into
// out. Status code and headers come back for every completed exchange
// so callers can branch on auth and rate-limit conditions.
func DoJSON(req *http.Request, out any) (int, http.Header, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, resp.Header, fmt.Errorf("reading body: %w", err)
	}

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, resp.Header, fmt.Errorf("parsing body: %w", err)
		}
	}
	return resp.StatusCode, resp.Header, nil
}

// GetJSON is DoJSON for a plain GET with optional extra headers. A
// Bearer Authorization header is set from apiKey unless the caller
// supplied its own.
func GetJSON(ctx context.Context, url, apiKey string, headers map[string]string, out any) (int, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if _, hasAuth := headers["Authorization"]; !hasAuth && apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	return DoJSON(req, out)
}
