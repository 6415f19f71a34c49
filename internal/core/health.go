package core

import (
	"math"
	"time"
)

// HealthScore reduces sections to a 0-100 aggregate: ok sections count
// in full, warnings count half, errors not at all. An empty list
// scores 0. Pure function, recomputed every cycle.
func HealthScore(sections []Section) int {
	if len(sections) == 0 {
		return 0
	}
	var weight float64
	for _, s := range sections {
		switch s.Status {
		case StatusOK:
			weight++
		case StatusWarning:
			weight += 0.5
		}
	}
	return int(math.Round(100 * weight / float64(len(sections))))
}

type HealthSample struct {
	Score int
	At    time.Time
}

// HistoryCapacity bounds the trend buffer; the oldest sample is
// evicted first. Two hours of 30-second cycles.
const HistoryCapacity = 240

type sampleKey struct {
	status Status
	at     time.Time
	score  int
}

// History is a bounded ring of health samples feeding the trend chart.
// It has a single owner — the render loop — and is not safe for
// concurrent use. Record deduplicates on the (status, timestamp,
// score) triple so re-renders that do not follow a new fan-out cannot
// inflate the trend.
type History struct {
	buf     []HealthSample
	head    int
	size    int
	last    sampleKey
	hasLast bool
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]HealthSample, capacity)}
}

// Record appends a sample unless its key matches the previous append.
// Reports whether a sample was stored.
func (h *History) Record(status Status, at time.Time, score int) bool {
	key := sampleKey{status: status, at: at, score: score}
	if h.hasLast && key == h.last {
		return false
	}
	h.last = key
	h.hasLast = true

	h.buf[h.head] = HealthSample{Score: score, At: at}
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
	return true
}

func (h *History) Len() int { return h.size }

// Scores returns the recorded scores oldest first, shaped for the
// chart widget.
func (h *History) Scores() []float64 {
	out := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		idx := (h.head - h.size + i + len(h.buf)) % len(h.buf)
		out[i] = float64(h.buf[idx].Score)
	}
	return out
}

// Latest returns the most recent sample, if any.
func (h *History) Latest() (HealthSample, bool) {
	if h.size == 0 {
		return HealthSample{}, false
	}
	return h.buf[(h.head-1+len(h.buf))%len(h.buf)], true
}
