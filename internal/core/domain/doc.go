// Package domain contains the core business entities for the radar
// pipeline: canonical regulatory events, severity classification,
// run statistics and sync audit records.
//
// Domain types have no dependencies on adapters or external services.
package domain
