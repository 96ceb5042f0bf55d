package driven

import (
	"context"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// EventStore persists canonical events keyed by their natural key.
// The store also owns the geospatial representation; the core only
// supplies and reads (longitude, latitude) pairs.
type EventStore interface {
	// Ping verifies the store is reachable. The orchestrator calls it
	// once at run start; a failure aborts the whole run.
	Ping(ctx context.Context) error

	// FindByNaturalKey returns the event stored under
	// (source, sourceID), or domain.ErrNotFound.
	FindByNaturalKey(ctx context.Context, source domain.SourceCode, sourceID string) (*domain.Event, error)

	// Insert stores a new event. The store assigns ID when empty.
	Insert(ctx context.Context, event *domain.Event) error

	// Update overwrites the mutable fields of the event stored under
	// id. DetectionDate and the natural key are never touched.
	Update(ctx context.Context, id string, event *domain.Event) error

	// List returns persisted events matching the filter, most recently
	// detected first.
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
}

// SyncLogStore appends per-source audit entries. Failures writing an
// entry are logged and swallowed by callers, never escalated.
type SyncLogStore interface {
	// AppendSyncLog records one adapter execution.
	AppendSyncLog(ctx context.Context, entry domain.SyncLogEntry) error

	// ListSyncLogs returns the most recent entries, newest first.
	ListSyncLogs(ctx context.Context, limit int) ([]domain.SyncLogEntry, error)
}
