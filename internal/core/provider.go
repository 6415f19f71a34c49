package core

import "context"

// Provider is the contract between the dashboard core and one usage
// source. Implementations bound their own Query latency — the engine
// applies no master timeout, so an adapter without a deadline can stall
// a whole refresh cycle. Recoverable conditions the adapter can still
// describe (missing credentials, local daemon down) belong in the
// output text via the "skipped" / "unavailable" markers; a returned
// error marks the whole query as failed.
type Provider interface {
	// ID uniquely identifies the adapter. The core uses it only for
	// list indexing.
	ID() string

	// Label is the display name, and the key that joins a provider to
	// its parsed section.
	Label() string

	// Query returns the provider's formatted usage report.
	Query(ctx context.Context) (string, error)
}
