package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─── Help Overlay ───────────────────────────────────────────────────────────

// renderHelpOverlay draws a centered help popup explaining the status
// icons and keybindings. Dismissed by pressing any key.
func (m Model) renderHelpOverlay(screenW, screenH int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSapphire)
	descStyle := lipgloss.NewStyle().Foreground(colorText)
	dimHintStyle := lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	var lines []string

	lines = append(lines, titleStyle.Render("  QuotaDeck Help"))
	lines = append(lines, "")

	// ── Status Badges ──
	lines = append(lines, headingStyle.Render("  Status Badges"))
	lines = append(lines, "")

	statuses := []struct {
		icon, badge, desc string
		color             lipgloss.Color
	}{
		{"●", "OK", "Section reported with no failure markers", colorOK},
		{"◐", "WARN", "A check was skipped (missing token, disabled probe)", colorWarn},
		{"✗", "ERR", "Provider failed or reported unavailable", colorCrit},
		{"◌", "SYNC", "Query cycle in progress", colorSapphire},
		{"·", "…", "No data yet for this provider", colorDim},
	}
	for _, s := range statuses {
		iconStr := lipgloss.NewStyle().Foreground(s.color).Render(s.icon)
		badgeStr := lipgloss.NewStyle().Foreground(s.color).Bold(true).Render(padRight(s.badge, 7))
		lines = append(lines, "    "+iconStr+" "+badgeStr+descStyle.Render(s.desc))
	}
	lines = append(lines, "")

	// ── Gauge Bar ──
	lines = append(lines, headingStyle.Render("  Gauge Bar"))
	lines = append(lines, "")
	lines = append(lines, "    "+descStyle.Render("The bar shows average % remaining across quota lines."))
	lines = append(lines, "    "+RenderGauge(72, 20, 0.3, 0.15)+"  "+descStyle.Render("← healthy"))
	lines = append(lines, "    "+RenderGauge(25, 20, 0.3, 0.15)+"  "+descStyle.Render("← warning"))
	lines = append(lines, "    "+RenderGauge(8, 20, 0.3, 0.15)+"  "+descStyle.Render("← critical"))
	lines = append(lines, "")

	// ── Keybindings ──
	lines = append(lines, headingStyle.Render("  Keys"))
	lines = append(lines, "")

	keys := []struct{ key, desc string }{
		{"← → / h l / Tab", "Select provider (wraps around)"},
		{"↑↓ / j k", "Scroll detail by one line"},
		{"PgUp / PgDn", "Scroll detail by half a page"},
		{"g / G", "Jump to top / bottom"},
		{"r", "Refresh all providers now"},
		{"v", "Toggle detail / board style"},
		{"p", "Switch focused panel (board style)"},
		{"t", "Cycle color theme"},
	}
	for _, k := range keys {
		kStr := keyStyle.Render(padRight(k.key, 18))
		lines = append(lines, "    "+kStr+descStyle.Render(k.desc))
	}
	lines = append(lines, "")

	// ── Global ──
	lines = append(lines, headingStyle.Render("  Global"))
	lines = append(lines, "")

	globalKeys := []struct{ key, desc string }{
		{"?", "Toggle this help"},
		{"q / Ctrl+C", "Quit"},
	}
	for _, k := range globalKeys {
		kStr := keyStyle.Render(padRight(k.key, 18))
		lines = append(lines, "    "+kStr+descStyle.Render(k.desc))
	}

	lines = append(lines, "")
	lines = append(lines, "  "+dimHintStyle.Render("Press any key to dismiss"))

	content := strings.Join(lines, "\n")

	contentW := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > contentW {
			contentW = w
		}
	}
	contentH := len(lines)

	boxW := contentW + 4
	if boxW > screenW-4 {
		boxW = screenW - 4
	}
	boxH := contentH + 2
	if boxH > screenH-2 {
		boxH = screenH - 2
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorBase).
		Padding(1, 2).
		Width(boxW)

	box := boxStyle.Render(content)

	boxRenderedW := lipgloss.Width(box)
	boxRenderedH := strings.Count(box, "\n") + 1

	padTop := (screenH - boxRenderedH) / 2
	if padTop < 0 {
		padTop = 0
	}
	padLeft := (screenW - boxRenderedW) / 2
	if padLeft < 0 {
		padLeft = 0
	}

	var overlay strings.Builder
	for i := 0; i < padTop; i++ {
		overlay.WriteString("\n")
	}
	for i, line := range strings.Split(box, "\n") {
		if i > 0 {
			overlay.WriteString("\n")
		}
		overlay.WriteString(strings.Repeat(" ", padLeft))
		overlay.WriteString(line)
	}

	renderedLines := padTop + boxRenderedH
	for renderedLines < screenH {
		overlay.WriteString("\n")
		renderedLines++
	}

	return overlay.String()
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
