package tui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/quotadeck/internal/config"
	"github.com/janekbaraniewski/quotadeck/internal/core"
)

// minRefreshEvery is the floor on the auto-refresh cadence.
const minRefreshEvery = time.Second

type spinnerTickMsg time.Time

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

type refreshTickMsg time.Time

func refreshTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// RefreshRequestMsg asks the dashboard to start a query cycle. It is sent
// at startup, by the config watcher, and by anything else outside the
// event loop that wants fresh data.
type RefreshRequestMsg struct{}

// ProvidersReloadedMsg swaps in an engine rebuilt from the files on
// disk, so credential edits reach the dashboard without a restart.
type ProvidersReloadedMsg struct {
	Engine *core.Engine
}

// UpdateNoticeMsg carries a newer-release notice into the header.
type UpdateNoticeMsg string

type refreshDoneMsg struct {
	snap    core.Snapshot
	started bool
}

type themePersistedMsg struct {
	err error
}

type stylePersistedMsg struct {
	err error
}

type Model struct {
	engine *core.Engine

	snap      core.Snapshot
	sections  []core.Section
	summaries []core.ProviderSummary
	history   *core.History

	selected int
	scroll   int
	style    DisplayStyle
	focused  PanelID
	showHelp bool

	width  int
	height int
	bp     Breakpoints
	layout Layout

	refreshing   bool
	refreshEvery time.Duration
	animFrame    int
	updateNotice string
}

func NewModel(engine *core.Engine, refreshEvery time.Duration, style DisplayStyle) Model {
	if refreshEvery < minRefreshEvery {
		refreshEvery = minRefreshEvery
	}
	m := Model{
		engine:       engine,
		history:      core.NewHistory(core.HistoryCapacity),
		style:        style,
		bp:           DefaultBreakpoints,
		refreshEvery: refreshEvery,
		snap: core.Snapshot{
			Status:  core.StatusIdle,
			Message: "waiting for first refresh",
		},
	}
	m.summaries = core.BuildSummaries(engine.Providers(), nil)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		spinnerTickCmd(),
		refreshTickCmd(m.refreshEvery),
		func() tea.Msg { return RefreshRequestMsg{} },
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		m.animFrame++
		return m, spinnerTickCmd()

	case refreshTickMsg:
		// The tick chain re-arms itself regardless of the cycle outcome,
		// so a busy engine never stalls the cadence.
		next := refreshTickCmd(m.refreshEvery)
		updated, refresh := m.startRefresh()
		return updated, tea.Batch(next, refresh)

	case RefreshRequestMsg:
		updated, refresh := m.startRefresh()
		return updated, refresh

	case ProvidersReloadedMsg:
		if msg.Engine != nil {
			m.engine = msg.Engine
			m.summaries = core.BuildSummaries(m.engine.Providers(), m.sections)
			m.clampSelection()
			m.recomputeLayout()
		}
		updated, refresh := m.startRefresh()
		return updated, refresh

	case refreshDoneMsg:
		if !msg.started {
			return m, nil
		}
		m.refreshing = false
		m.snap = msg.snap
		m.sections = core.ParseSections(msg.snap.Content)
		m.summaries = core.BuildSummaries(m.engine.Providers(), m.sections)
		m.history.Record(msg.snap.Status, msg.snap.Timestamp, core.HealthScore(m.sections))
		m.clampSelection()
		m.recomputeLayout()
		return m, nil

	case UpdateNoticeMsg:
		m.updateNotice = string(msg)
		return m, nil

	case themePersistedMsg, stylePersistedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recomputeLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "r":
		updated, refresh := m.startRefresh()
		return updated, refresh

	case "left", "h":
		m = m.selectStep(-1)
	case "right", "l", "tab":
		m = m.selectStep(1)

	case "up", "k":
		m.scroll = clamp(m.scroll-1, 0, m.maxScroll())
	case "down", "j":
		m.scroll = clamp(m.scroll+1, 0, m.maxScroll())
	case "pgup":
		m.scroll = clamp(m.scroll-m.scrollPage(), 0, m.maxScroll())
	case "pgdown":
		m.scroll = clamp(m.scroll+m.scrollPage(), 0, m.maxScroll())
	case "g":
		m.scroll = 0
	case "G":
		m.scroll = m.maxScroll()

	case "v":
		m.style = m.style.Next()
		m.scroll = 0
		m.recomputeLayout()
		return m, persistStyleCmd(m.style)

	case "p":
		if m.style == StyleBoard {
			m.focused = NextPanel(m.focused)
			m.recomputeLayout()
		}

	case "t":
		name := CycleTheme()
		return m, persistThemeCmd(name)
	}
	return m, nil
}

// startRefresh flips the dashboard into its loading state and kicks the
// engine in the background. Existing content stays on screen until the
// cycle finishes.
func (m Model) startRefresh() (Model, tea.Cmd) {
	m.refreshing = true
	m.snap.Status = core.StatusLoading
	m.snap.Message = fmt.Sprintf("querying %d providers", len(m.engine.Providers()))

	engine := m.engine
	return m, func() tea.Msg {
		snap, ok := engine.Refresh(context.Background())
		return refreshDoneMsg{snap: snap, started: ok}
	}
}

func (m Model) selectStep(step int) Model {
	n := len(m.summaries)
	if n == 0 {
		return m
	}
	m.selected = ((m.selected+step)%n + n) % n
	m.scroll = 0
	return m
}

func (m *Model) clampSelection() {
	if n := len(m.summaries); n > 0 {
		m.selected = clamp(m.selected, 0, n-1)
	} else {
		m.selected = 0
	}
}

func (m *Model) recomputeLayout() {
	m.layout = m.bp.Compute(
		m.width, m.height,
		len(m.summaries)+2, len(m.selectedDetailLines())+2,
		m.focused, m.style,
	)
}

func (m Model) selectedSummary() (core.ProviderSummary, bool) {
	if m.selected < 0 || m.selected >= len(m.summaries) {
		return core.ProviderSummary{}, false
	}
	return m.summaries[m.selected], true
}

func (m Model) maxScroll() int {
	over := len(m.selectedDetailLines()) - m.layout.DetailRows
	if over < 0 {
		return 0
	}
	return over
}

func (m Model) scrollPage() int {
	step := m.layout.DetailRows / 2
	if step < 1 {
		step = 1
	}
	return step
}

func (m Model) View() string {
	if m.width < 30 || m.height < 8 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Render("\n  Terminal too small. Resize to at least 30x8.")
	}
	if m.showHelp {
		return m.renderHelpOverlay(m.width, m.height)
	}
	return m.renderFrame()
}

func persistThemeCmd(themeName string) tea.Cmd {
	return func() tea.Msg {
		err := config.SaveTheme(themeName)
		if err != nil {
			log.Printf("theme persist: %v", err)
		}
		return themePersistedMsg{err: err}
	}
}

func persistStyleCmd(style DisplayStyle) tea.Cmd {
	return func() tea.Msg {
		err := config.SaveDisplayStyle(style.String())
		if err != nil {
			log.Printf("display style persist: %v", err)
		}
		return stylePersistedMsg{err: err}
	}
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
