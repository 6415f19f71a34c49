package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/quotadeck/internal/core"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// pulseChar alternates between two glyphs on a slow beat for subtle motion.
func pulseChar(a, b string, frame int) string {
	if (frame/4)%2 == 0 {
		return a
	}
	return b
}

func (m Model) renderFrame() string {
	w, h := m.width, m.height

	header := m.renderHeader(w)
	footer := m.renderFooter(w)
	contentH := h - headerHeight - footerHeight
	if contentH < 2 {
		contentH = 2
	}

	var content string
	switch m.layout.Mode {
	case ModeWide:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderOverviewPanel(m.layout.List.W, m.layout.List.H),
			" ",
			m.renderDetailPanel(m.layout.Detail.W, m.layout.Detail.H),
		)
	case ModeCompact, ModeTiny:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderOverviewStrip(w, m.layout.List.H, m.layout.Mode),
			m.renderDetailPanel(m.layout.Detail.W, m.layout.Detail.H),
		)
	case ModeMicro:
		content = m.renderMicro(w, contentH)

	case ModeStudio:
		primary := lipgloss.JoinVertical(lipgloss.Left,
			m.renderOverviewPanel(m.layout.List.W, m.layout.List.H),
			m.renderDetailPanel(m.layout.Detail.W, m.layout.Detail.H),
		)
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			primary,
			" ",
			m.renderRail(m.layout.Rail.W, m.layout.Rail.H),
		)
	case ModeDual:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderOverviewPanel(m.layout.List.W, m.layout.List.H),
			" ",
			m.renderDetailPanel(m.layout.Detail.W, m.layout.Detail.H),
		)
	case ModeStack:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderOverviewPanel(m.layout.List.W, m.layout.List.H),
			m.renderDetailPanel(m.layout.Detail.W, m.layout.Detail.H),
		)
	case ModeFocus:
		if m.focused == PanelDetail {
			content = m.renderDetailPanel(m.layout.Detail.W, m.layout.Detail.H)
		} else {
			content = m.renderOverviewPanel(m.layout.List.W, m.layout.List.H)
		}
	default:
		content = m.renderOverviewPanel(w, contentH)
	}

	content = padToSize(content, w, contentH)
	return header + "\n" + content + "\n" + footer
}

// ─── Header / Footer ────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	bolt := pulseChar(
		lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("⚡"),
		lipgloss.NewStyle().Foreground(colorDim).Bold(true).Render("⚡"),
		m.animFrame,
	)
	brand := headerBrandStyle.Render("QuotaDeck")

	spinnerStr := ""
	if m.refreshing {
		frame := m.animFrame % len(spinnerFrames)
		spinnerStr = " " + lipgloss.NewStyle().Foreground(colorAccent).Render(spinnerFrames[frame])
	}

	counts := lo.CountValuesBy(m.summaries, func(sum core.ProviderSummary) core.Status {
		return summaryStatus(sum)
	})
	statusInfo := ""
	if n := counts[core.StatusOK]; n > 0 {
		dot := pulseChar("●", "◉", m.animFrame)
		statusInfo += lipgloss.NewStyle().Foreground(colorGreen).Render(fmt.Sprintf(" %d%s", n, dot))
	}
	if n := counts[core.StatusWarning]; n > 0 {
		dot := pulseChar("●", "◑", m.animFrame)
		statusInfo += lipgloss.NewStyle().Foreground(colorYellow).Render(fmt.Sprintf(" %d%s", n, dot))
	}
	if n := counts[core.StatusError]; n > 0 {
		dot := pulseChar("✗", "✕", m.animFrame)
		statusInfo += lipgloss.NewStyle().Foreground(colorRed).Render(fmt.Sprintf(" %d%s", n, dot))
	}

	notice := ""
	if m.updateNotice != "" {
		notice = " " + MetaTagHighlight("↑", m.updateNotice)
	}

	updated := "never"
	if !m.snap.Timestamp.IsZero() {
		updated = m.snap.Timestamp.Format("15:04:05")
	}
	info := fmt.Sprintf("%s · updated %s · health %d%%",
		m.snap.Status, updated, core.HealthScore(m.sections))
	infoRendered := lipgloss.NewStyle().Foreground(colorSubtext).Render(info)

	left := bolt + " " + brand + statusInfo + spinnerStr + notice
	gap := w - lipgloss.Width(left) - lipgloss.Width(infoRendered)
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + infoRendered
	sep := sectionSepStyle.Render(strings.Repeat("━", max(1, w)))

	return fitAnsiWidth(line, w) + "\n" + sep
}

func (m Model) renderFooter(w int) string {
	var line string
	switch {
	case m.refreshing && m.snap.Message != "":
		line = " " + tealStyle.Render(m.snap.Message)
	case m.snap.Status == core.StatusError && m.snap.Message != "":
		line = " " + badgeCritStyle.Render(m.snap.Message) + "  " + helpStyle.Render("? help")
	default:
		hints := []string{"←/→ select", "↑/↓ scroll", "r refresh", "v style"}
		if m.style == StyleBoard {
			hints = append(hints, "p panel")
		}
		hints = append(hints, "t theme", "? help", "q quit")
		line = " " + helpStyle.Render(strings.Join(hints, " · "))
	}
	return fitAnsiWidth(line, w)
}

// ─── Overview Panel ─────────────────────────────────────────────────────────

func (m Model) renderOverviewPanel(w, h int) string {
	innerW := max(10, w-4)
	title := sectionHeaderStyle.Render(fmt.Sprintf("Providers (%d)", len(m.summaries)))

	rows := make([]string, 0, len(m.summaries))
	for i, sum := range m.summaries {
		rows = append(rows, m.renderOverviewRow(sum, i == m.selected, innerW))
	}
	if len(rows) == 0 {
		rows = append(rows, dimStyle.Render("no providers registered"))
	}

	visible := max(1, h-3)
	if len(rows) > visible {
		start := clamp(m.selected-visible/2, 0, len(rows)-visible)
		rows = rows[start : start+visible]
		if start > 0 {
			rows[0] = dimStyle.Render("  ▲ more above")
		}
		if start+visible < len(m.summaries) {
			rows[len(rows)-1] = dimStyle.Render("  ▼ more below")
		}
	}

	body := title + "\n" + strings.Join(rows, "\n")
	return panelBox(body, w, h, colorBorder)
}

func (m Model) renderOverviewRow(sum core.ProviderSummary, selected bool, w int) string {
	status := summaryStatus(sum)

	prefix := " "
	nameStyle := labelStyle
	if selected {
		prefix = lipgloss.NewStyle().Foreground(colorSelected).Render("▌")
		nameStyle = valueStyle.Bold(true)
	}

	icon := lipgloss.NewStyle().Foreground(StatusColor(status)).Render(StatusIcon(status))
	name := truncateToWidth(sum.Label, 14)
	name = nameStyle.Render(padRight(name, 14))

	gaugeStr := ""
	if w >= 36 {
		if sum.AvgRemaining != nil {
			pct := float64(*sum.AvgRemaining)
			pctStyle := lipgloss.NewStyle().Foreground(StatusColor(status)).Bold(true)
			gaugeStr = RenderMiniGauge(pct, 10) + pctStyle.Render(fmt.Sprintf(" %3d%%", *sum.AvgRemaining))
		} else {
			gaugeStr = gaugeTrackStyle.Render(strings.Repeat("─", 10)) + dimStyle.Render("   — ")
		}
	}

	badge := StatusBadge(status)
	left := prefix + icon + " " + name + " " + gaugeStr
	gap := w - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}

	row := left + strings.Repeat(" ", gap) + badge
	if selected {
		return cardSelectedStyle.Render(fitAnsiWidth(row, w-2))
	}
	return fitAnsiWidth(row, w)
}

// renderOverviewStrip draws the collapsed provider list used by the
// stacked detail arrangements. Tiny mode drops the gauges.
func (m Model) renderOverviewStrip(w, h int, mode Mode) string {
	if mode == ModeTiny {
		parts := make([]string, 0, len(m.summaries))
		for i, sum := range m.summaries {
			status := summaryStatus(sum)
			icon := lipgloss.NewStyle().Foreground(StatusColor(status)).Render(StatusIcon(status))
			name := truncateToWidth(sum.Label, 10)
			if i == m.selected {
				name = cardSelectedStyle.Render(valueStyle.Bold(true).Render(name))
			} else {
				name = labelStyle.Render(name)
			}
			parts = append(parts, icon+" "+name)
		}
		body := sectionHeaderStyle.Render("Providers") + "\n" + fitAnsiWidth(strings.Join(parts, "  "), max(10, w-4))
		return panelBox(body, w, h, colorBorder)
	}
	return m.renderOverviewPanel(w, h)
}

// ─── Detail Panel ───────────────────────────────────────────────────────────

func (m Model) renderDetailPanel(w, h int) string {
	innerW := max(10, w-4)
	lines := m.selectedDetailLines()

	title := m.renderDetailTitle(innerW)
	sep := m.renderDetailSeparator(innerW)

	bodyH := max(1, h-4)
	scrollable := len(lines) > bodyH
	if scrollable {
		bodyH = max(1, bodyH-1)
	}
	start := clamp(m.scroll, 0, max(0, len(lines)-bodyH))
	end := min(start+bodyH, len(lines))

	body := make([]string, 0, bodyH+3)
	body = append(body, title, sep)
	for _, line := range lines[start:end] {
		body = append(body, fitAnsiWidth(detailLineStyle(line).Render(truncateToWidth(line, innerW)), innerW))
	}
	if scrollable {
		body = append(body, renderScrollBarLine(innerW, start, bodyH, len(lines)))
	}

	border := colorBorder
	if sum, ok := m.selectedSummary(); ok && sum.Section != nil {
		border = StatusBorderColor(sum.Section.Status)
	}
	return panelBox(strings.Join(body, "\n"), w, h, border)
}

func (m Model) renderDetailTitle(w int) string {
	sum, ok := m.selectedSummary()
	if !ok {
		return dimStyle.Render("nothing selected")
	}

	status := summaryStatus(sum)
	name := detailTitleStyle.Render(truncateToWidth(sum.Label, 24))
	pill := StatusPill(status)

	meta := ""
	if sum.AvgRemaining != nil {
		meta += " " + MetaTagHighlight("◔", fmt.Sprintf("%d%% remaining", *sum.AvgRemaining))
	}
	if !m.snap.Timestamp.IsZero() {
		meta += " " + MetaTag("◷", formatDuration(time.Since(m.snap.Timestamp))+" ago")
	}

	line := name + " " + pill + meta
	return fitAnsiWidth(line, w)
}

func (m Model) renderDetailSeparator(w int) string {
	color := colorSurface1
	if sum, ok := m.selectedSummary(); ok {
		color = ProviderColor(sum.ID)
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("─", max(1, w)))
}

// selectedDetailLines returns the raw section lines shown in the detail
// pane for the current selection.
func (m Model) selectedDetailLines() []string {
	sum, ok := m.selectedSummary()
	if !ok {
		return []string{"no providers registered"}
	}
	if sum.Section == nil {
		switch m.snap.Status {
		case core.StatusIdle, core.StatusLoading:
			return []string{"waiting for first refresh"}
		default:
			return []string{"no section reported in the last cycle"}
		}
	}
	return sum.Section.Lines
}

// detailLineStyle colors a verbatim section line by its failure markers.
func detailLineStyle(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "ERROR:") || strings.Contains(line, "unavailable"):
		return badgeCritStyle
	case strings.Contains(line, "skipped"):
		return badgeWarnStyle
	default:
		return valueStyle
	}
}

// ─── Micro Mode ─────────────────────────────────────────────────────────────

func (m Model) renderMicro(w, h int) string {
	sum, ok := m.selectedSummary()
	if !ok {
		return dimStyle.Render(" no providers registered")
	}

	status := summaryStatus(sum)
	selector := fmt.Sprintf("%s %s %s  %d/%d",
		dimStyle.Render("◀"),
		detailTitleStyle.Render(truncateToWidth(sum.Label, 16)),
		dimStyle.Render("▶"),
		m.selected+1, len(m.summaries))
	statusLine := StatusBadge(status)
	if sum.AvgRemaining != nil {
		statusLine += "  " + RenderMiniGauge(float64(*sum.AvgRemaining), 8) +
			fmt.Sprintf(" %d%%", *sum.AvgRemaining)
	}

	lines := m.selectedDetailLines()
	bodyH := max(1, h-2)
	start := clamp(m.scroll, 0, max(0, len(lines)-bodyH))
	end := min(start+bodyH, len(lines))

	out := make([]string, 0, bodyH+2)
	out = append(out, fitAnsiWidth(selector, w), fitAnsiWidth(statusLine, w))
	for _, line := range lines[start:end] {
		out = append(out, fitAnsiWidth(detailLineStyle(line).Render(truncateToWidth(line, w-1)), w))
	}
	return strings.Join(out, "\n")
}

// ─── Insights Rail ──────────────────────────────────────────────────────────

func (m Model) renderRail(w, h int) string {
	innerW := max(10, w-4)

	var lines []string
	lines = append(lines, chartTitleStyle.Render("Insights"))
	lines = append(lines, "")

	score := core.HealthScore(m.sections)
	lines = append(lines, chartAxisStyle.Render("health ")+
		lipgloss.NewStyle().Foreground(healthColor(score)).Bold(true).Render(fmt.Sprintf("%d%%", score))+
		m.renderHealthTrendArrow())

	if chart := m.renderHealthSparkline(innerW, 4); chart != "" {
		lines = append(lines, chart)
	}
	lines = append(lines, "")

	counts := lo.CountValuesBy(m.summaries, func(sum core.ProviderSummary) core.Status {
		return summaryStatus(sum)
	})
	lines = append(lines,
		badgeOKStyle.Render(fmt.Sprintf("%d ok", counts[core.StatusOK]))+dimStyle.Render(" · ")+
			badgeWarnStyle.Render(fmt.Sprintf("%d warn", counts[core.StatusWarning]))+dimStyle.Render(" · ")+
			badgeCritStyle.Render(fmt.Sprintf("%d err", counts[core.StatusError])))

	remaining := lo.FilterMap(m.summaries, func(sum core.ProviderSummary, _ int) (int, bool) {
		if sum.AvgRemaining == nil {
			return 0, false
		}
		return *sum.AvgRemaining, true
	})
	if len(remaining) > 0 {
		avg := lo.Sum(remaining) / len(remaining)
		lines = append(lines, "")
		lines = append(lines, chartAxisStyle.Render("avg remaining"))
		lines = append(lines, RenderGauge(float64(avg), max(8, innerW-8), 0.5, 0.2))
	}

	lines = append(lines, "")
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%d providers · %d samples",
		len(m.summaries), m.history.Len())))

	return panelBox(strings.Join(lines, "\n"), w, h, colorBorder)
}

func (m Model) renderHealthSparkline(w, h int) string {
	scores := m.history.Scores()
	if len(scores) == 0 {
		return chartAxisStyle.Render("collecting samples...")
	}
	sl := sparkline.New(w, h, sparkline.WithMaxValue(100))
	for _, v := range scores {
		sl.Push(v)
	}
	sl.Draw()
	return sl.View()
}

func (m Model) renderHealthTrendArrow() string {
	scores := m.history.Scores()
	if len(scores) < 2 {
		return ""
	}
	prev, cur := scores[len(scores)-2], scores[len(scores)-1]
	switch {
	case cur > prev:
		return badgeOKStyle.Render(" ▲")
	case cur < prev:
		return badgeCritStyle.Render(" ▼")
	default:
		return dimStyle.Render(" ▬")
	}
}

func healthColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return colorOK
	case score >= 40:
		return colorWarn
	default:
		return colorCrit
	}
}

// ─── Shared Helpers ─────────────────────────────────────────────────────────

// summaryStatus reduces a provider summary to its display status. A
// provider with no section in the latest snapshot shows as idle.
func summaryStatus(sum core.ProviderSummary) core.Status {
	if sum.Section == nil {
		return core.StatusIdle
	}
	return sum.Section.Status
}

// panelBox wraps body in a rounded border sized to an exact outer
// width and height.
func panelBox(body string, w, h int, border lipgloss.Color) string {
	innerW := max(1, w-4)
	innerH := max(1, h-2)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(w - 2).
		Render(padToSize(body, innerW, innerH))
}

func padToSize(content string, w, h int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

func truncateToWidth(s string, maxW int) string {
	if maxW <= 0 || lipgloss.Width(s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)+"…") > maxW {
		r = r[:len(r)-1]
	}
	if len(r) == 0 {
		return "…"
	}
	return string(r) + "…"
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd%dh", int(d.Hours())/24, int(d.Hours())%24)
	}
}
