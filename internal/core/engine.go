package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Engine fans a refresh out to every registered provider and folds the
// settled outcomes into a single Snapshot. At most one cycle runs at a
// time; requests arriving while one is active are no-ops.
type Engine struct {
	mu        sync.Mutex
	providers []Provider
	inFlight  bool
}

func NewEngine(providers []Provider) *Engine {
	return &Engine{providers: providers}
}

// Providers returns the registered providers in registry order.
func (e *Engine) Providers() []Provider {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Provider, len(e.providers))
	copy(out, e.providers)
	return out
}

// InFlight reports whether a refresh cycle is currently running.
func (e *Engine) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Refresh runs one fan-out cycle and returns the resulting snapshot.
// When another cycle is already active it returns ok=false without
// doing any work. The in-flight guard is released on every exit path,
// including orchestration failures.
func (e *Engine) Refresh(ctx context.Context) (Snapshot, bool) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return Snapshot{}, false
	}
	e.inFlight = true
	providers := make([]Provider, len(e.providers))
	copy(providers, e.providers)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	if err := validateRegistry(providers); err != nil {
		// The cycle never ran, so the snapshot carries no timestamp.
		return Snapshot{Status: StatusError, Message: err.Error()}, true
	}

	return collect(ctx, providers), true
}

func validateRegistry(providers []Provider) error {
	seen := make(map[string]struct{}, len(providers))
	for i, p := range providers {
		if p == nil {
			return fmt.Errorf("provider registry entry %d is nil", i)
		}
		if _, dup := seen[p.ID()]; dup {
			return fmt.Errorf("duplicate provider id %q", p.ID())
		}
		seen[p.ID()] = struct{}{}
	}
	return nil
}

// collect queries every provider concurrently and waits for all of
// them to settle. One slow provider delays the cycle but never hides
// another's result, and one failure never aborts the rest.
func collect(ctx context.Context, providers []Provider) Snapshot {
	var wg sync.WaitGroup
	results := make(chan Outcome, len(providers))

	for _, p := range providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			start := time.Now()
			text, err := p.Query(ctx)
			if err != nil {
				log.Printf("engine: %s failed after %s: %v", p.ID(), time.Since(start).Round(time.Millisecond), err)
				results <- Outcome{ID: p.ID(), Label: p.Label(), Err: err.Error()}
				return
			}
			results <- Outcome{ID: p.ID(), Label: p.Label(), Text: text}
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	byID := make(map[string]Outcome, len(providers))
	for o := range results {
		byID[o.ID] = o
	}

	// Content order is registry order, not completion order.
	outcomes := make([]Outcome, 0, len(providers))
	for _, p := range providers {
		outcomes = append(outcomes, byID[p.ID()])
	}

	return BuildSnapshot(outcomes, time.Now())
}

// BuildSnapshot folds settled outcomes into one snapshot. Content is
// the ordered concatenation of provider blocks separated by a blank
// line; a failed query renders as an "ERROR:" line under the provider
// heading so the parser classifies that section as failed.
func BuildSnapshot(outcomes []Outcome, at time.Time) Snapshot {
	blocks := make([]string, 0, len(outcomes))
	failed := 0

	for _, o := range outcomes {
		if o.Failed() {
			failed++
			blocks = append(blocks, sectionMarker+o.Label+"\n"+errorPrefix+" "+o.Err)
			continue
		}
		blocks = append(blocks, sectionMarker+o.Label+"\n"+o.Text)
	}

	snap := Snapshot{
		Timestamp: at,
		Status:    StatusOK,
		Content:   strings.Join(blocks, "\n\n"),
	}
	if failed > 0 {
		snap.Status = StatusError
		snap.Message = fmt.Sprintf("%d provider(s) failed.", failed)
	}
	return snap
}
