// Package providerbase carries the identity and latency bound every
// provider adapter embeds.
package providerbase

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single provider query. The refresh engine
// applies no deadline of its own, so an adapter without one can stall
// a whole refresh cycle.
const DefaultTimeout = 8 * time.Second

// Base supplies ID, Label and the per-query deadline. Provider packages
// embed it and implement only Query.
type Base struct {
	id      string
	label   string
	timeout time.Duration
}

func New(id, label string) Base {
	return NewWithTimeout(id, label, DefaultTimeout)
}

func NewWithTimeout(id, label string, timeout time.Duration) Base {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Base{id: id, label: label, timeout: timeout}
}

func (b Base) ID() string {
	return b.id
}

func (b Base) Label() string {
	return b.label
}

func (b Base) Timeout() time.Duration {
	return b.timeout
}

// Bound derives the context a single query runs under. Callers defer
// the returned cancel.
func (b Base) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}
