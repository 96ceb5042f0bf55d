// Package sources groups the per-source adapters that fetch raw
// records from external regulatory data providers and normalise them
// into canonical events.
//
// Each adapter lives in its own sub-package (anm, ibama, anp, cprm,
// usgs, sec), owns its fetch targets and severity table, and shares no
// mutable state with the others. Shared plumbing lives in fetch (HTTP
// client), normalize (dates, deterministic ids) and scrape (HTML
// traversal).
package sources
