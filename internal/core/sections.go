package core

import "strings"

// Marker strings forming the text contract between provider output and
// the parser. Providers signal soft and hard degradation with the
// "skipped" / "unavailable" substrings inside their own report lines;
// the engine prefixes failed queries with "ERROR:". Classification
// depends on these exact strings, so they live here and nowhere else.
const (
	sectionMarker   = "## "
	errorPrefix     = "ERROR:"
	hardFailMarker  = "unavailable"
	softFailMarker  = "skipped"
	implicitSection = "General"
)

// ParseSections splits snapshot content into named, classified
// sections. A "## " line opens a section named by the rest of that
// line; lines before any marker fall into an implicit "General"
// section. Every other line is kept verbatim, blanks included, since
// layout weighting counts section lines. Empty content parses to an
// empty list. Pure function of its input.
func ParseSections(content string) []Section {
	if content == "" {
		return nil
	}

	var sections []Section
	var cur *Section

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, sectionMarker) {
			if cur != nil {
				sections = append(sections, *cur)
			}
			cur = &Section{Name: line[len(sectionMarker):]}
			continue
		}
		if cur == nil {
			cur = &Section{Name: implicitSection}
		}
		cur.Lines = append(cur.Lines, line)
	}
	if cur != nil {
		sections = append(sections, *cur)
	}

	for i := range sections {
		sections[i].Status = classifyLines(sections[i].Lines)
	}
	return sections
}

// classifyLines derives a section status from its lines, position
// independent. Error beats warning; a section with no marker lines is
// ok, so unknown output stays quiet instead of raising a false alarm.
func classifyLines(lines []string) Status {
	status := StatusOK
	for _, line := range lines {
		if strings.HasPrefix(line, errorPrefix) || strings.Contains(line, hardFailMarker) {
			return StatusError
		}
		if strings.Contains(line, softFailMarker) {
			status = StatusWarning
		}
	}
	return status
}
