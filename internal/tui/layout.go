package tui

// Layout math for the dashboard. Everything in this file is pure: the
// model hands in the terminal size, the per-panel content line counts,
// the focused panel, and the active display style, and gets back pixel
// rectangles. No tea state is read or written here, which keeps resize
// handling a single recompute and makes the geometry testable.

// DisplayStyle selects between the two top-level arrangements the
// dashboard can render. Detail is the classic list-plus-reader split,
// board tiles every panel at once.
type DisplayStyle int

const (
	StyleDetail DisplayStyle = iota
	StyleBoard

	styleCount
)

var styleNames = [...]string{
	StyleDetail: "detail",
	StyleBoard:  "board",
}

func (s DisplayStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "detail"
	}
	return styleNames[s]
}

// Next cycles to the other display style.
func (s DisplayStyle) Next() DisplayStyle {
	return (s + 1) % styleCount
}

// ParseDisplayStyle maps a persisted style name back to its constant.
// Unknown names fall back to the detail style.
func ParseDisplayStyle(name string) DisplayStyle {
	for i, n := range styleNames {
		if n == name {
			return DisplayStyle(i)
		}
	}
	return StyleDetail
}

// Mode is the concrete arrangement picked for one (size, style) pair.
type Mode int

const (
	// Detail-style modes, widest first.
	ModeWide Mode = iota
	ModeCompact
	ModeTiny
	ModeMicro

	// Board-style modes.
	ModeStudio
	ModeDual
	ModeStack
	ModeFocus

	modeCount
)

var modeNames = [...]string{
	ModeWide:    "wide",
	ModeCompact: "compact",
	ModeTiny:    "tiny",
	ModeMicro:   "micro",
	ModeStudio:  "studio",
	ModeDual:    "dual",
	ModeStack:   "stack",
	ModeFocus:   "focus",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Stacked reports whether the mode places the overview above the detail
// pane rather than beside it.
func (m Mode) Stacked() bool {
	switch m {
	case ModeCompact, ModeTiny, ModeMicro, ModeStudio, ModeStack:
		return true
	}
	return false
}

// PanelID names the two primary panels for focus handling in board
// modes.
type PanelID int

const (
	PanelOverview PanelID = iota
	PanelDetail

	panelCount
)

// NextPanel cycles focus to the other primary panel.
func NextPanel(p PanelID) PanelID {
	return (p + 1) % panelCount
}

// Rect is a screen-space rectangle in character cells.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no drawable area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Layout is the computed geometry for one frame. Rects not used by the
// selected mode stay zero. DetailRows is the scrollable content window
// of the detail pane, which the model uses to clamp scroll offsets.
type Layout struct {
	Mode       Mode
	List       Rect
	Detail     Rect
	Rail       Rect
	DetailRows int
}

// Breakpoints holds every width and height threshold the layout
// decisions key on. Keeping them in a struct rather than as constants
// lets tests pin exact edges without faking terminal sizes.
type Breakpoints struct {
	// Detail-style width cutoffs: below Micro the micro arrangement is
	// used, below Tiny the tiny one, below Compact the compact one, and
	// anything wider renders the full wide split.
	Micro   int
	Tiny    int
	Compact int

	// Board-style cutoffs. Below FocusMax only the focused panel is
	// drawn. At DualMin and above the two panels sit side by side, and
	// at StudioMinW x StudioMinH the studio arrangement adds the
	// insights rail.
	FocusMax   int
	DualMin    int
	StudioMinW int
	StudioMinH int

	// RailPercent is the share of the width the studio insights rail
	// takes, in percent.
	RailPercent int

	// Header rows reserved above the detail pane in the detail style.
	// The stacked arrangements reserve more because the overview block
	// sits inside the reserve.
	ReserveWide    int
	ReserveStacked int

	// Floors. PanelFloor is the minimum height of a stacked board
	// panel, DetailFloor the minimum detail content window.
	PanelFloor  int
	DetailFloor int
}

// DefaultBreakpoints are the thresholds the dashboard ships with.
var DefaultBreakpoints = Breakpoints{
	Micro:          58,
	Tiny:           78,
	Compact:        112,
	FocusMax:       64,
	DualMin:        100,
	StudioMinW:     140,
	StudioMinH:     32,
	RailPercent:    30,
	ReserveWide:    7,
	ReserveStacked: 12,
	PanelFloor:     6,
	DetailFloor:    5,
}

const (
	headerHeight = 2
	footerHeight = 1

	// Rows a board panel spends on its border, title, and separator.
	boardPanelChrome = 4
)

// Compute derives the frame geometry for the given terminal size. The
// same inputs always produce the same layout; callers re-invoke it on
// every resize and style change instead of mutating a previous result.
func (bp Breakpoints) Compute(width, height, listLines, detailLines int, focused PanelID, style DisplayStyle) Layout {
	if style == StyleBoard {
		return bp.board(width, height, listLines, detailLines, focused)
	}
	return bp.detail(width, height)
}

func (bp Breakpoints) detail(width, height int) Layout {
	mode := ModeWide
	switch {
	case width < bp.Micro:
		mode = ModeMicro
	case width < bp.Tiny:
		mode = ModeTiny
	case width < bp.Compact:
		mode = ModeCompact
	}

	reserve := bp.ReserveWide
	if mode != ModeWide {
		reserve = bp.ReserveStacked
	}
	rows := max(bp.DetailFloor, height-reserve)

	body := max(2, height-headerHeight-footerHeight)

	if mode == ModeWide {
		listW := min(max(width/3, 28), 40)
		return Layout{
			Mode:       mode,
			List:       Rect{X: 0, Y: headerHeight, W: listW, H: body},
			Detail:     Rect{X: listW + 1, Y: headerHeight, W: width - listW - 1, H: body},
			DetailRows: rows,
		}
	}

	// Stacked: the overview block sits above the detail pane and keeps
	// whatever the detail reserve leaves over.
	listH := max(3, body-rows-1)
	return Layout{
		Mode:       mode,
		List:       Rect{X: 0, Y: headerHeight, W: width, H: listH},
		Detail:     Rect{X: 0, Y: headerHeight + listH + 1, W: width, H: max(1, body-listH-1)},
		DetailRows: rows,
	}
}

func (bp Breakpoints) board(width, height, listLines, detailLines int, focused PanelID) Layout {
	body := max(4, height-headerHeight-footerHeight)

	switch {
	case width < bp.FocusMax:
		full := Rect{X: 0, Y: headerHeight, W: width, H: body}
		lay := Layout{Mode: ModeFocus}
		if focused == PanelDetail {
			lay.Detail = full
			lay.DetailRows = max(1, body-boardPanelChrome)
		} else {
			lay.List = full
		}
		return lay

	case width >= bp.StudioMinW && height >= bp.StudioMinH:
		railW := width * bp.RailPercent / 100
		primaryW := width - railW - 1
		topH, bottomH := apportion(body-1, listLines, detailLines, bp.PanelFloor)
		return Layout{
			Mode:       ModeStudio,
			List:       Rect{X: 0, Y: headerHeight, W: primaryW, H: topH},
			Detail:     Rect{X: 0, Y: headerHeight + topH + 1, W: primaryW, H: bottomH},
			Rail:       Rect{X: primaryW + 1, Y: headerHeight, W: railW, H: body},
			DetailRows: max(1, bottomH-boardPanelChrome),
		}

	case width >= bp.DualMin:
		leftW := width/2 - 1
		return Layout{
			Mode:       ModeDual,
			List:       Rect{X: 0, Y: headerHeight, W: leftW, H: body},
			Detail:     Rect{X: leftW + 1, Y: headerHeight, W: width - leftW - 1, H: body},
			DetailRows: max(1, body-boardPanelChrome),
		}

	default:
		topH, bottomH := apportion(body-1, listLines, detailLines, bp.PanelFloor)
		return Layout{
			Mode:       ModeStack,
			List:       Rect{X: 0, Y: headerHeight, W: width, H: topH},
			Detail:     Rect{X: 0, Y: headerHeight + topH + 1, W: width, H: bottomH},
			DetailRows: max(1, bottomH-boardPanelChrome),
		}
	}
}

// apportion splits avail rows between two stacked panels in proportion
// to their content line counts. Each panel keeps at least floor rows
// whenever avail allows it.
func apportion(avail, topLines, bottomLines, floor int) (top, bottom int) {
	if avail <= 2*floor {
		top = avail / 2
		return top, avail - top
	}
	total := topLines + bottomLines
	if total <= 0 {
		top = avail / 2
		return top, avail - top
	}
	top = avail * topLines / total
	if top < floor {
		top = floor
	}
	if avail-top < floor {
		top = avail - floor
	}
	return top, avail - top
}
