package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/quotadeck/internal/core"
)

// ─── Color Palette (Gruvbox by default, swapped by applyTheme) ──────────────

var (
	// Base tones
	colorBase     = lipgloss.Color("#282828") // background
	colorMantle   = lipgloss.Color("#1D2021") // deeper bg
	colorSurface0 = lipgloss.Color("#3C3836") // card bg
	colorSurface1 = lipgloss.Color("#504945") // lighter surface
	colorSurface2 = lipgloss.Color("#665C54") // even lighter surface
	colorText     = lipgloss.Color("#EBDBB2") // primary text
	colorSubtext  = lipgloss.Color("#D5C4A1") // secondary text
	colorDim      = lipgloss.Color("#665C54") // muted, borders
	colorOverlay  = lipgloss.Color("#504945") // selected bg

	// Accents
	colorAccent    = lipgloss.Color("#D3869B") // primary accent
	colorBlue      = lipgloss.Color("#83A598") // section headers
	colorSapphire  = lipgloss.Color("#83A598") // secondary accent
	colorGreen     = lipgloss.Color("#B8BB26") // OK / healthy
	colorYellow    = lipgloss.Color("#FABD2F") // warning
	colorRed       = lipgloss.Color("#FB4934") // error / critical
	colorPeach     = lipgloss.Color("#FE8019") // highlights
	colorTeal      = lipgloss.Color("#8EC07C") // secondary highlight
	colorFlamingo  = lipgloss.Color("#D3869B") // subtle highlight
	colorRosewater = lipgloss.Color("#EBDBB2") // hover
	colorLavender  = lipgloss.Color("#D3869B") // titles
	colorSky       = lipgloss.Color("#83A598") // info
	colorMaroon    = lipgloss.Color("#CC241D") // alt-red

	// Semantic aliases
	colorOK       = colorGreen
	colorWarn     = colorYellow
	colorCrit     = colorRed
	colorIdle     = colorDim
	colorBorder   = colorDim
	colorSelected = colorAccent
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerStyle        lipgloss.Style
	headerBrandStyle   lipgloss.Style
	sectionHeaderStyle lipgloss.Style

	helpStyle    lipgloss.Style
	helpKeyStyle lipgloss.Style

	labelStyle      lipgloss.Style
	valueStyle      lipgloss.Style
	dimStyle        lipgloss.Style
	tealStyle       lipgloss.Style
	gaugeTrackStyle lipgloss.Style

	// Card styles for overview rows
	cardNormalStyle   lipgloss.Style
	cardSelectedStyle lipgloss.Style

	// Badge-like status markers
	badgeOKStyle   lipgloss.Style
	badgeWarnStyle lipgloss.Style
	badgeCritStyle lipgloss.Style

	// Detail header
	detailTitleStyle      lipgloss.Style
	detailHeaderCardStyle lipgloss.Style

	// Status pill: colored background badge
	statusPillOKStyle   lipgloss.Style
	statusPillWarnStyle lipgloss.Style
	statusPillCritStyle lipgloss.Style
	statusPillDimStyle  lipgloss.Style

	// Metadata chips (updated-at, remaining average)
	metaTagStyle          lipgloss.Style
	metaTagHighlightStyle lipgloss.Style

	// Section header separator line
	sectionSepStyle lipgloss.Style

	// Insights rail
	chartTitleStyle lipgloss.Style
	chartAxisStyle  lipgloss.Style
)

// rebuildStyles re-derives every style var from the current color vars.
// Styles capture colors at construction time, so a palette swap has to
// recreate them.
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBlue)

	helpStyle = lipgloss.NewStyle().
		Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
		Foreground(colorSapphire).
		Bold(true)

	labelStyle = lipgloss.NewStyle().
		Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
		Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
		Foreground(colorDim)

	tealStyle = lipgloss.NewStyle().
		Foreground(colorTeal)

	gaugeTrackStyle = lipgloss.NewStyle().
		Foreground(colorDim)

	cardNormalStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	cardSelectedStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Background(colorSurface0)

	badgeOKStyle = lipgloss.NewStyle().
		Foreground(colorGreen).
		Bold(true)

	badgeWarnStyle = lipgloss.NewStyle().
		Foreground(colorYellow).
		Bold(true)

	badgeCritStyle = lipgloss.NewStyle().
		Foreground(colorRed).
		Bold(true)

	detailTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorLavender)

	detailHeaderCardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(0, 1)

	statusPillOKStyle = lipgloss.NewStyle().
		Foreground(colorMantle).
		Background(colorGreen).
		Bold(true).
		Padding(0, 1)

	statusPillWarnStyle = lipgloss.NewStyle().
		Foreground(colorMantle).
		Background(colorYellow).
		Bold(true).
		Padding(0, 1)

	statusPillCritStyle = lipgloss.NewStyle().
		Foreground(colorMantle).
		Background(colorRed).
		Bold(true).
		Padding(0, 1)

	statusPillDimStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorSurface1).
		Padding(0, 1)

	metaTagStyle = lipgloss.NewStyle().
		Foreground(colorSubtext).
		Background(colorSurface0).
		Padding(0, 1)

	metaTagHighlightStyle = lipgloss.NewStyle().
		Foreground(colorSapphire).
		Background(colorSurface0).
		Padding(0, 1)

	sectionSepStyle = lipgloss.NewStyle().
		Foreground(colorSurface1)

	chartTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBlue)

	chartAxisStyle = lipgloss.NewStyle().
		Foreground(colorDim)
}

// ─── Provider Color Palette ─────────────────────────────────────────────────

// providerColorMap assigns a stable accent color to each known provider.
var providerColorMap map[string]lipgloss.Color

// accentPalette cycles through colors for providers outside the map and
// for the insights rail.
var accentPalette []lipgloss.Color

func rebuildPalettes() {
	providerColorMap = map[string]lipgloss.Color{
		"openai":     colorGreen,
		"anthropic":  colorPeach,
		"openrouter": colorRosewater,
		"copilot":    colorSapphire,
		"ollama":     colorTeal,
		"claude_web": colorLavender,
		"cursor_web": colorBlue,
	}
	accentPalette = []lipgloss.Color{
		colorPeach, colorTeal, colorSapphire, colorGreen,
		colorYellow, colorLavender, colorSky, colorFlamingo,
		colorMaroon, colorRosewater, colorBlue, colorAccent,
	}
}

func init() {
	rebuildStyles()
	rebuildPalettes()
}

// ProviderColor returns the accent color for a provider by ID.
func ProviderColor(providerID string) lipgloss.Color {
	if c, ok := providerColorMap[providerID]; ok {
		return c
	}
	// Fallback: hash the name to pick a color from the accent palette
	h := 0
	for _, ch := range providerID {
		h = h*31 + int(ch)
	}
	if h < 0 {
		h = -h
	}
	return accentPalette[h%len(accentPalette)]
}

// ─── Theme Application ──────────────────────────────────────────────────────

// applyTheme swaps the active palette. Callers hold themeMu.
func applyTheme(t Theme) {
	colorBase = t.Base
	colorMantle = t.Mantle
	colorSurface0 = t.Surface0
	colorSurface1 = t.Surface1
	colorSurface2 = t.Surface2
	colorOverlay = t.Overlay
	colorText = t.Text
	colorSubtext = t.Subtext
	colorDim = t.Dim
	colorAccent = t.Accent
	colorBlue = t.Blue
	colorSapphire = t.Sapphire
	colorGreen = t.Green
	colorYellow = t.Yellow
	colorRed = t.Red
	colorPeach = t.Peach
	colorTeal = t.Teal
	colorFlamingo = t.Flamingo
	colorRosewater = t.Rosewater
	colorLavender = t.Lavender
	colorSky = t.Sky
	colorMaroon = t.Maroon

	colorOK = colorGreen
	colorWarn = colorYellow
	colorCrit = colorRed
	colorIdle = colorDim
	colorBorder = colorDim
	colorSelected = colorAccent

	rebuildStyles()
	rebuildPalettes()
}

// ─── Status Helpers ─────────────────────────────────────────────────────────

// StatusColor returns the accent color for a given status.
func StatusColor(s core.Status) lipgloss.Color {
	switch s {
	case core.StatusOK:
		return colorOK
	case core.StatusWarning:
		return colorWarn
	case core.StatusError:
		return colorCrit
	case core.StatusLoading:
		return colorSapphire
	default:
		return colorIdle
	}
}

// StatusIcon returns a compact icon for a status.
func StatusIcon(s core.Status) string {
	switch s {
	case core.StatusOK:
		return "●"
	case core.StatusWarning:
		return "◐"
	case core.StatusError:
		return "✗"
	case core.StatusLoading:
		return "◌"
	default:
		return "·"
	}
}

// StatusBadge returns a styled badge string for the status.
func StatusBadge(s core.Status) string {
	var style lipgloss.Style
	var text string
	switch s {
	case core.StatusOK:
		style = badgeOKStyle
		text = "OK"
	case core.StatusWarning:
		style = badgeWarnStyle
		text = "WARN"
	case core.StatusError:
		style = badgeCritStyle
		text = "ERR"
	case core.StatusLoading:
		style = tealStyle
		text = "SYNC"
	default:
		style = dimStyle
		text = "…"
	}
	return style.Render(text)
}

// StatusPill returns a filled pill-style badge (colored background) for detail headers.
func StatusPill(s core.Status) string {
	switch s {
	case core.StatusOK:
		return statusPillOKStyle.Render(" OK ")
	case core.StatusWarning:
		return statusPillWarnStyle.Render(" WARN ")
	case core.StatusError:
		return statusPillCritStyle.Render(" ERR ")
	case core.StatusLoading:
		return statusPillDimStyle.Render(" SYNC ")
	default:
		return statusPillDimStyle.Render(" … ")
	}
}

// StatusBorderColor returns the border color for the header card based on status.
func StatusBorderColor(s core.Status) lipgloss.Color {
	switch s {
	case core.StatusOK:
		return colorGreen
	case core.StatusWarning:
		return colorYellow
	case core.StatusError:
		return colorRed
	default:
		return colorSurface1
	}
}

// MetaTag renders a small metadata chip with dimmed styling.
func MetaTag(icon, text string) string {
	if text == "" {
		return ""
	}
	return metaTagStyle.Render(icon + " " + text)
}

// MetaTagHighlight renders a metadata chip with accent color.
func MetaTagHighlight(icon, text string) string {
	if text == "" {
		return ""
	}
	return metaTagHighlightStyle.Render(icon + " " + text)
}
