package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEvent indicates an event is missing required
	// identifying fields (source, source id or title).
	ErrInvalidEvent = errors.New("invalid event")

	// ErrStoreUnavailable indicates the event store cannot be reached
	// at all. It is the only condition fatal to a sync run.
	ErrStoreUnavailable = errors.New("event store unavailable")

	// ErrSkipRecord indicates a single raw record could not be
	// minimally normalised and was dropped. It never propagates past
	// the adapter that produced it.
	ErrSkipRecord = errors.New("record skipped")

	// ErrSyncInProgress indicates a run is already executing.
	ErrSyncInProgress = errors.New("sync in progress")
)
