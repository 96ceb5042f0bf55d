package domain

import "time"

// RunStatus is the outcome of one adapter's execution within a run.
type RunStatus string

// Per-source run outcomes.
const (
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// SourceRunResult is the per-adapter outcome within one run.
type SourceRunResult struct {
	// Fetched is the number of events the adapter returned.
	Fetched int `json:"fetched"`

	// New is the number of events inserted for the first time.
	New int `json:"new"`

	// Updated is the number of events that matched an existing
	// natural key and were overwritten in place.
	Updated int `json:"updated"`

	// DurationSeconds is the wall time of fetch plus persistence.
	DurationSeconds float64 `json:"duration_seconds"`

	// Status is success or error.
	Status RunStatus `json:"status"`

	// Error carries the failure message when Status is error.
	Error string `json:"error,omitempty"`
}

// SyncRunStats aggregates one complete orchestrator invocation across
// all adapters. It is the structured result returned to every caller,
// including partially failed runs.
type SyncRunStats struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`

	TotalFetched int `json:"total_fetched"`
	TotalNew     int `json:"total_new"`
	TotalUpdated int `json:"total_updated"`
	TotalErrors  int `json:"total_errors"`

	// Sources maps source code to its per-run result.
	Sources map[SourceCode]SourceRunResult `json:"sources"`
}
