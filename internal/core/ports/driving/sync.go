package driving

import (
	"context"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// SyncRunner is the single trigger the core exposes to its callers.
// Scheduling cadence, HTTP exposure and authorization are the caller's
// concern.
type SyncRunner interface {
	// RunAll executes every registered source adapter, persists the
	// normalised events and returns aggregate statistics.
	//
	// Per-source and per-event failures are absorbed into the returned
	// stats. RunAll returns a non-nil error only when the event store
	// is unreachable at run start; no partial stats accompany it.
	RunAll(ctx context.Context) (*domain.SyncRunStats, error)
}
