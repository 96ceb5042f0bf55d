// Package services contains the core orchestration logic: the sync
// runner that drives all source adapters through fetch, normalisation
// and idempotent persistence, and the scheduler that re-runs it on an
// interval. Services depend only on the port interfaces, never on
// concrete adapters.
package services
