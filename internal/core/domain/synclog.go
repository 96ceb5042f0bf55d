package domain

import "time"

// SyncLogEntry is the append-only audit record of one adapter's
// execution within a run. One entry is written per source per run,
// for successful and failed executions alike. Writing it is
// best-effort: a logging failure never fails the run.
type SyncLogEntry struct {
	// ID is assigned by the store.
	ID int64 `json:"id,omitempty"`

	// Source is the adapter this entry audits.
	Source SourceCode `json:"source"`

	// RecordsFetched is the number of events the adapter returned.
	RecordsFetched int `json:"records_fetched"`

	// ExecutionTimeMs is the adapter's fetch+persist wall time.
	ExecutionTimeMs float64 `json:"execution_time_ms"`

	// Status is success or error.
	Status RunStatus `json:"status"`

	// Error carries the failure message when Status is error.
	Error string `json:"error,omitempty"`

	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp"`
}
