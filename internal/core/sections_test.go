package core

import (
	"reflect"
	"testing"
)

func TestParseSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Section
	}{
		{
			name:    "empty content yields no sections",
			content: "",
			want:    nil,
		},
		{
			name:    "single labeled section",
			content: "## OpenAI\nRequests     72% remaining",
			want: []Section{
				{Name: "OpenAI", Lines: []string{"Requests     72% remaining"}, Status: StatusOK},
			},
		},
		{
			name:    "lines before any marker fall into General",
			content: "stray line\n## Ollama\nModels       4 installed",
			want: []Section{
				{Name: "General", Lines: []string{"stray line"}, Status: StatusOK},
				{Name: "Ollama", Lines: []string{"Models       4 installed"}, Status: StatusOK},
			},
		},
		{
			name:    "blank lines preserved verbatim",
			content: "## Aurora\nfirst\n\nlast",
			want: []Section{
				{Name: "Aurora", Lines: []string{"first", "", "last"}, Status: StatusOK},
			},
		},
		{
			name:    "marker with no body opens an empty section",
			content: "## Empty\n## Next\nline",
			want: []Section{
				{Name: "Empty", Status: StatusOK},
				{Name: "Next", Lines: []string{"line"}, Status: StatusOK},
			},
		},
		{
			name:    "ERROR prefix marks the section failed",
			content: "## OpenRouter\nERROR: timeout",
			want: []Section{
				{Name: "OpenRouter", Lines: []string{"ERROR: timeout"}, Status: StatusError},
			},
		},
		{
			name:    "unavailable marker fails the section from any line",
			content: "## Ollama\nModels       4 installed\nServer       unavailable (connection refused)",
			want: []Section{
				{Name: "Ollama", Lines: []string{"Models       4 installed", "Server       unavailable (connection refused)"}, Status: StatusError},
			},
		},
		{
			name:    "skipped marker alone is a warning, not an error",
			content: "## Copilot\nQuota        skipped (no token)",
			want: []Section{
				{Name: "Copilot", Lines: []string{"Quota        skipped (no token)"}, Status: StatusWarning},
			},
		},
		{
			name:    "error outranks warning within one section",
			content: "## Mixed\nQuota        skipped (no token)\nERROR: boom",
			want: []Section{
				{Name: "Mixed", Lines: []string{"Quota        skipped (no token)", "ERROR: boom"}, Status: StatusError},
			},
		},
		{
			name:    "classification does not leak across sections",
			content: "## Bad\nERROR: down\n\n## Good\nRequests     90% remaining",
			want: []Section{
				{Name: "Bad", Lines: []string{"ERROR: down", ""}, Status: StatusError},
				{Name: "Good", Lines: []string{"Requests     90% remaining"}, Status: StatusOK},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSections(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSections() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseSectionsIsPure(t *testing.T) {
	content := "## Aurora\nRequests     80% remaining\n\n## Basalt\nQuota        skipped (no token)"

	first := ParseSections(content)
	second := ParseSections(content)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ParseSections() not deterministic: %#v vs %#v", first, second)
	}
}

// The marker strings are a compatibility contract with every provider
// adapter; drifting one of them silently breaks classification.
func TestMarkerStrings(t *testing.T) {
	if sectionMarker != "## " {
		t.Errorf("sectionMarker = %q, want %q", sectionMarker, "## ")
	}
	if errorPrefix != "ERROR:" {
		t.Errorf("errorPrefix = %q, want %q", errorPrefix, "ERROR:")
	}
	if hardFailMarker != "unavailable" || softFailMarker != "skipped" {
		t.Errorf("failure markers = %q/%q, want unavailable/skipped", hardFailMarker, softFailMarker)
	}
}
