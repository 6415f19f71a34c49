package tui

import (
	"reflect"
	"testing"
)

func TestComputeIsDeterministic(t *testing.T) {
	bp := DefaultBreakpoints
	a := bp.Compute(120, 40, 12, 30, PanelOverview, StyleBoard)
	b := bp.Compute(120, 40, 12, 30, PanelOverview, StyleBoard)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Compute() not deterministic: %+v vs %+v", a, b)
	}
}

func TestDetailStyleModeBreakpoints(t *testing.T) {
	tests := []struct {
		width int
		want  Mode
	}{
		{width: 30, want: ModeMicro},
		{width: 57, want: ModeMicro},
		{width: 58, want: ModeTiny},
		{width: 77, want: ModeTiny},
		{width: 78, want: ModeCompact},
		{width: 111, want: ModeCompact},
		{width: 112, want: ModeWide},
		{width: 200, want: ModeWide},
	}

	bp := DefaultBreakpoints
	for _, tt := range tests {
		got := bp.Compute(tt.width, 40, 8, 20, PanelOverview, StyleDetail)
		if got.Mode != tt.want {
			t.Errorf("Compute(w=%d).Mode = %v, want %v", tt.width, got.Mode, tt.want)
		}
	}
}

func TestDetailRowsReserve(t *testing.T) {
	bp := DefaultBreakpoints

	wide := bp.Compute(120, 40, 8, 20, PanelOverview, StyleDetail)
	if wide.DetailRows != 33 {
		t.Errorf("wide DetailRows = %d, want %d", wide.DetailRows, 33)
	}

	stacked := bp.Compute(90, 40, 8, 20, PanelOverview, StyleDetail)
	if stacked.DetailRows != 28 {
		t.Errorf("stacked DetailRows = %d, want %d", stacked.DetailRows, 28)
	}

	// Short terminals bottom out at the floor instead of going negative.
	short := bp.Compute(120, 6, 8, 20, PanelOverview, StyleDetail)
	if short.DetailRows != bp.DetailFloor {
		t.Errorf("short DetailRows = %d, want floor %d", short.DetailRows, bp.DetailFloor)
	}
}

func TestDetailWideSplitGeometry(t *testing.T) {
	bp := DefaultBreakpoints
	lay := bp.Compute(120, 40, 8, 20, PanelOverview, StyleDetail)

	if lay.List.W < 28 || lay.List.W > 40 {
		t.Errorf("list width = %d, want within [28, 40]", lay.List.W)
	}
	if got := lay.Detail.X; got != lay.List.W+1 {
		t.Errorf("detail X = %d, want %d", got, lay.List.W+1)
	}
	if got := lay.List.W + 1 + lay.Detail.W; got != 120 {
		t.Errorf("columns cover %d cells, want 120", got)
	}
	if !lay.Rail.Empty() {
		t.Errorf("wide layout has rail %+v, want none", lay.Rail)
	}
}

func TestBoardStyleModeBreakpoints(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          Mode
	}{
		{name: "narrow goes focus", width: 63, height: 40, want: ModeFocus},
		{name: "focus edge exits at 64", width: 64, height: 40, want: ModeStack},
		{name: "below dual stacks", width: 99, height: 40, want: ModeStack},
		{name: "dual edge", width: 100, height: 40, want: ModeDual},
		{name: "wide but flat stays dual", width: 140, height: 31, want: ModeDual},
		{name: "studio needs both axes", width: 140, height: 32, want: ModeStudio},
		{name: "studio width edge", width: 139, height: 32, want: ModeDual},
	}

	bp := DefaultBreakpoints
	for _, tt := range tests {
		got := bp.Compute(tt.width, tt.height, 8, 20, PanelOverview, StyleBoard)
		if got.Mode != tt.want {
			t.Errorf("%s: Compute(%dx%d).Mode = %v, want %v", tt.name, tt.width, tt.height, got.Mode, tt.want)
		}
	}
}

func TestBoardFocusShowsOnlyFocusedPanel(t *testing.T) {
	bp := DefaultBreakpoints

	overview := bp.Compute(50, 30, 8, 20, PanelOverview, StyleBoard)
	if overview.List.Empty() {
		t.Errorf("focused overview rect is empty: %+v", overview.List)
	}
	if !overview.Detail.Empty() {
		t.Errorf("unfocused detail rect = %+v, want empty", overview.Detail)
	}

	detail := bp.Compute(50, 30, 8, 20, PanelDetail, StyleBoard)
	if detail.Detail.Empty() {
		t.Errorf("focused detail rect is empty: %+v", detail.Detail)
	}
	if !detail.List.Empty() {
		t.Errorf("unfocused overview rect = %+v, want empty", detail.List)
	}
	if detail.DetailRows != detail.Detail.H-boardPanelChrome {
		t.Errorf("focus DetailRows = %d, want %d", detail.DetailRows, detail.Detail.H-boardPanelChrome)
	}
}

func TestBoardStudioGeometry(t *testing.T) {
	bp := DefaultBreakpoints
	lay := bp.Compute(150, 40, 10, 30, PanelOverview, StyleBoard)

	if lay.Mode != ModeStudio {
		t.Fatalf("Compute(150x40).Mode = %v, want %v", lay.Mode, ModeStudio)
	}
	wantRail := 150 * bp.RailPercent / 100
	if lay.Rail.W != wantRail {
		t.Errorf("rail width = %d, want %d", lay.Rail.W, wantRail)
	}
	if lay.List.W != lay.Detail.W {
		t.Errorf("primary widths differ: list %d, detail %d", lay.List.W, lay.Detail.W)
	}
	if got := lay.List.W + 1 + lay.Rail.W; got != 150 {
		t.Errorf("studio columns cover %d cells, want 150", got)
	}
}

func TestBoardStackProportionalHeights(t *testing.T) {
	bp := DefaultBreakpoints
	lay := bp.Compute(80, 41, 10, 30, PanelOverview, StyleBoard)

	if lay.Mode != ModeStack {
		t.Fatalf("Compute(80x41).Mode = %v, want %v", lay.Mode, ModeStack)
	}
	if lay.List.H >= lay.Detail.H {
		t.Errorf("list height %d not below detail height %d despite smaller content", lay.List.H, lay.Detail.H)
	}
	if lay.List.H < bp.PanelFloor || lay.Detail.H < bp.PanelFloor {
		t.Errorf("panel heights %d/%d fall under floor %d", lay.List.H, lay.Detail.H, bp.PanelFloor)
	}
	if got := lay.Detail.Y; got != lay.List.Y+lay.List.H+1 {
		t.Errorf("detail Y = %d, want %d", got, lay.List.Y+lay.List.H+1)
	}
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name                  string
		avail, top, bottom    int
		floor                 int
		wantTop, wantBottom   int
	}{
		{name: "proportional", avail: 40, top: 10, bottom: 30, floor: 6, wantTop: 10, wantBottom: 30},
		{name: "floor lifts small panel", avail: 20, top: 1, bottom: 39, floor: 6, wantTop: 6, wantBottom: 14},
		{name: "floor caps large panel", avail: 20, top: 39, bottom: 1, floor: 6, wantTop: 14, wantBottom: 6},
		{name: "zero content splits evenly", avail: 20, top: 0, bottom: 0, floor: 6, wantTop: 10, wantBottom: 10},
		{name: "tight space splits evenly", avail: 9, top: 50, bottom: 1, floor: 6, wantTop: 4, wantBottom: 5},
	}

	for _, tt := range tests {
		gotTop, gotBottom := apportion(tt.avail, tt.top, tt.bottom, tt.floor)
		if gotTop != tt.wantTop || gotBottom != tt.wantBottom {
			t.Errorf("%s: apportion(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.name, tt.avail, tt.top, tt.bottom, tt.floor, gotTop, gotBottom, tt.wantTop, tt.wantBottom)
		}
		if gotTop+gotBottom != tt.avail {
			t.Errorf("%s: split %d+%d does not cover avail %d", tt.name, gotTop, gotBottom, tt.avail)
		}
	}
}

func TestDisplayStyleRoundTrip(t *testing.T) {
	for s := DisplayStyle(0); s < styleCount; s++ {
		if got := ParseDisplayStyle(s.String()); got != s {
			t.Errorf("ParseDisplayStyle(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if got := ParseDisplayStyle("retro"); got != StyleDetail {
		t.Errorf("ParseDisplayStyle(unknown) = %v, want %v", got, StyleDetail)
	}
	if got := StyleDetail.Next().Next(); got != StyleDetail {
		t.Errorf("Next cycle = %v, want %v", got, StyleDetail)
	}
}
