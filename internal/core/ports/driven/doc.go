// Package driven defines the outbound ports of the radar core:
// the source adapter contract and the persistence contracts the
// orchestrator consumes. Concrete implementations live under
// internal/sources and internal/adapters/driven.
package driven
