package core

import "time"

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Snapshot is the merged result of one fan-out cycle across all
// providers. Each cycle replaces it wholesale; nothing patches it in
// place, so a renderer never observes a half-updated one.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"` // zero until the first completed cycle
	Status    Status    `json:"status"`    // idle, loading, ok or error
	Content   string    `json:"content"`   // ordered provider-labeled blocks
	Message   string    `json:"message,omitempty"`
}

// Outcome is one provider's settled result within a cycle.
type Outcome struct {
	ID    string
	Label string
	Text  string // payload when the query succeeded
	Err   string // error message when it did not
}

func (o Outcome) Failed() bool { return o.Err != "" }

// Section is the slice of snapshot content attributable to one
// provider, with a status derived purely from its lines. Sections are
// recomputed from the current snapshot on every cycle.
type Section struct {
	Name   string
	Lines  []string // verbatim, blanks included, order preserved
	Status Status   // ok, warning or error
}

// ProviderSummary joins a provider with its parsed section, if any.
// The provider list may be longer than the section list when a
// provider is absent from the current content.
type ProviderSummary struct {
	ID           string
	Label        string
	Section      *Section
	AvgRemaining *int // rounded mean of "<n>% remaining" captures, clamped to [0,100]
}
