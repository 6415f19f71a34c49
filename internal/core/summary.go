package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// remainingPattern captures the percentages providers embed as
// "<n>% remaining" per the output contract.
var remainingPattern = regexp.MustCompile(`(\d{1,3})% remaining`)

// BuildSummaries joins providers with their parsed sections in
// registry order. The join is the first case-insensitive match between
// provider label and section name. Summaries are derived data:
// recompute whenever the snapshot or the provider list changes, never
// cache across cycles.
func BuildSummaries(providers []Provider, sections []Section) []ProviderSummary {
	out := make([]ProviderSummary, 0, len(providers))
	for _, p := range providers {
		sum := ProviderSummary{ID: p.ID(), Label: p.Label()}
		for i := range sections {
			if strings.EqualFold(sections[i].Name, p.Label()) {
				sum.Section = &sections[i]
				sum.AvgRemaining = averageRemaining(sections[i].Lines)
				break
			}
		}
		out = append(out, sum)
	}
	return out
}

// averageRemaining is the rounded mean of every "<n>% remaining"
// capture across the lines, clamped to [0,100]. Nil when nothing
// matches. Upstream numbers are trusted verbatim; the clamp only keeps
// the gauge drawable.
func averageRemaining(lines []string) *int {
	total, n := 0, 0
	for _, line := range lines {
		for _, m := range remainingPattern.FindAllStringSubmatch(line, -1) {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			total += v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(float64(total) / float64(n)))
	if avg > 100 {
		avg = 100
	}
	if avg < 0 {
		avg = 0
	}
	return &avg
}
