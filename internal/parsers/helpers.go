// Package parsers holds the header and timestamp parsing shared by the
// HTTP-backed providers.
package parsers

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitGroup is one limit/remaining/reset triple scraped from a
// provider's rate-limit response headers.
type RateLimitGroup struct {
	Limit     *float64
	Remaining *float64
	ResetTime *time.Time
}

// PercentRemaining converts the group into the remaining share of its
// limit, nil when either side is missing or the limit is zero.
func (g *RateLimitGroup) PercentRemaining() *float64 {
	if g == nil || g.Limit == nil || g.Remaining == nil || *g.Limit <= 0 {
		return nil
	}
	pct := *g.Remaining / *g.Limit * 100
	return &pct
}

func ParseFloat(val string) *float64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseResetTime accepts the reset encodings seen in the wild: epoch
// seconds or milliseconds, RFC3339, and a relative Go duration ("30s",
// "6m0s").
func ParseResetTime(val string) *time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}

	if ts, err := strconv.ParseFloat(val, 64); err == nil && ts > 1_000_000_000 {
		if ts > 1_000_000_000_000 {
			t := time.UnixMilli(int64(ts))
			return &t
		}
		t := time.Unix(int64(ts), 0)
		return &t
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t
	}

	if d, err := time.ParseDuration(val); err == nil {
		t := time.Now().Add(d)
		return &t
	}

	return nil
}

func ParseRateLimitGroup(h http.Header, limitHeader, remainingHeader, resetHeader string) *RateLimitGroup {
	limit := ParseFloat(h.Get(limitHeader))
	remaining := ParseFloat(h.Get(remainingHeader))
	if limit == nil && remaining == nil {
		return nil
	}
	return &RateLimitGroup{
		Limit:     limit,
		Remaining: remaining,
		ResetTime: ParseResetTime(h.Get(resetHeader)),
	}
}

// FormatReset renders the distance to a reset instant for a report
// line. Empty when no reset is known.
func FormatReset(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}
	d := t.Sub(now).Round(time.Second)
	if d <= 0 {
		return "now"
	}
	return "in " + d.String()
}

// RedactHeaders copies headers into a plain map with credential-bearing
// values masked, safe for debug logging.
func RedactHeaders(headers http.Header, sensitiveKeys ...string) map[string]string {
	sensitive := map[string]bool{
		"authorization": true,
		"x-api-key":     true,
		"cookie":        true,
	}
	for _, k := range sensitiveKeys {
		sensitive[strings.ToLower(k)] = true
	}

	out := make(map[string]string)
	for k, vals := range headers {
		key := strings.ToLower(k)
		val := strings.Join(vals, ", ")
		if sensitive[key] {
			if len(val) > 8 {
				val = val[:4] + "..." + val[len(val)-4:]
			} else {
				val = "****"
			}
		}
		out[k] = val
	}
	return out
}
