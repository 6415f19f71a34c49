// Package shared holds the report formatting and HTTP plumbing common
// to the provider adapters.
package shared

import (
	"fmt"
	"math"
	"strings"
)

// keyColumn is the width names are padded to, so mixed reports align
// in the detail panel.
const keyColumn = 12

// Report accumulates the text a provider returns from Query. Lines
// follow the classification contract: "<n>% remaining" marks a metric,
// "skipped" a soft failure, "unavailable" a hard one.
type Report struct {
	lines []string
}

// Linef appends one aligned "name value" line.
func (r *Report) Linef(name, format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf("%-*s %s", keyColumn, name, fmt.Sprintf(format, args...)))
}

// Remaining appends a metric line. The percentage is rounded and
// clamped so summaries always capture it.
func (r *Report) Remaining(name string, pct float64) {
	n := int(math.Round(pct))
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	r.Linef(name, "%d%% remaining", n)
}

// RemainingOf is Remaining for a used/limit pair. No-op when the limit
// is unknown.
func (r *Report) RemainingOf(name string, remaining, limit float64) {
	if limit <= 0 {
		return
	}
	r.Remaining(name, remaining/limit*100)
}

// Skipped appends a soft-failure line, classifying the whole section
// as degraded.
func (r *Report) Skipped(name, reason string) {
	r.Linef(name, "skipped (%s)", reason)
}

// Header opens a named sub-section within the provider's report.
func (r *Report) Header(name string) {
	r.lines = append(r.lines, "## "+name)
}

// Note appends a raw line, unpadded.
func (r *Report) Note(line string) {
	r.lines = append(r.lines, line)
}

func (r *Report) Len() int {
	return len(r.lines)
}

func (r *Report) Empty() bool {
	return len(r.lines) == 0
}

func (r *Report) String() string {
	return strings.Join(r.lines, "\n")
}
