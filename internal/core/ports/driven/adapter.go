package driven

import (
	"context"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// SourceAdapter fetches raw records from one external source and
// normalises them into canonical events. One implementation exists per
// source code.
//
// Implementations own their fetch targets, pagination limits and
// severity tables, share no mutable state, and are safe to invoke
// concurrently with each other.
type SourceAdapter interface {
	// Source returns the code of the source this adapter covers.
	Source() domain.SourceCode

	// FetchAll fetches and normalises every available record.
	//
	// A single malformed record never aborts the fetch: records that
	// cannot be minimally normalised are skipped and logged. FetchAll
	// returns an error only when the source itself is unreachable or
	// answers the whole request with a non-success status.
	FetchAll(ctx context.Context) ([]domain.Event, error)
}
