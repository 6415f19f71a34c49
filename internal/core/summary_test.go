package core

import "testing"

func TestBuildSummariesJoinsByLabel(t *testing.T) {
	providers := []Provider{
		&fakeProvider{id: "a", label: "Aurora"},
		&fakeProvider{id: "b", label: "Basalt"},
		&fakeProvider{id: "c", label: "Cinder"},
	}
	sections := []Section{
		{Name: "AURORA", Lines: []string{"Requests     80% remaining"}, Status: StatusOK},
		{Name: "Cinder", Lines: []string{"nothing to extract"}, Status: StatusOK},
	}

	got := BuildSummaries(providers, sections)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	if got[0].Section == nil || got[0].Section.Name != "AURORA" {
		t.Errorf("Aurora join = %+v, want case-insensitive match on AURORA", got[0].Section)
	}
	if got[0].AvgRemaining == nil || *got[0].AvgRemaining != 80 {
		t.Errorf("Aurora AvgRemaining = %v, want 80", got[0].AvgRemaining)
	}

	if got[1].Section != nil {
		t.Errorf("Basalt join = %+v, want nil for absent section", got[1].Section)
	}
	if got[1].AvgRemaining != nil {
		t.Errorf("Basalt AvgRemaining = %v, want nil", got[1].AvgRemaining)
	}

	if got[2].Section == nil {
		t.Fatal("Cinder join = nil, want its section")
	}
	if got[2].AvgRemaining != nil {
		t.Errorf("Cinder AvgRemaining = %v, want nil when no lines match", got[2].AvgRemaining)
	}

	// Registry order survives the join.
	for i, id := range []string{"a", "b", "c"} {
		if got[i].ID != id {
			t.Errorf("summary[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestAverageRemaining(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name  string
		lines []string
		want  *int
	}{
		{
			name:  "mean of three captures",
			lines: []string{"Requests     80% remaining", "Tokens       60% remaining", "Credits      40% remaining"},
			want:  intPtr(60),
		},
		{
			name:  "no captures",
			lines: []string{"Models       4 installed", "75% used"},
			want:  nil,
		},
		{
			name:  "two captures on one line",
			lines: []string{"rpm 80% remaining, tpm 60% remaining"},
			want:  intPtr(70),
		},
		{
			name:  "mean rounds half up",
			lines: []string{"a 50% remaining", "b 51% remaining"},
			want:  intPtr(51),
		},
		{
			name:  "upstream overshoot clamps to 100",
			lines: []string{"Credits      250% remaining"},
			want:  intPtr(100),
		},
		{
			name:  "four-digit number matches on its last three digits",
			lines: []string{"Tokens       1000% remaining"},
			want:  intPtr(0), // capture is "000": the pattern window is 1-3 digits
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := averageRemaining(tt.lines)
			switch {
			case got == nil && tt.want != nil:
				t.Errorf("averageRemaining() = nil, want %d", *tt.want)
			case got != nil && tt.want == nil:
				t.Errorf("averageRemaining() = %d, want nil", *got)
			case got != nil && tt.want != nil && *got != *tt.want:
				t.Errorf("averageRemaining() = %d, want %d", *got, *tt.want)
			}
		})
	}
}
