package domain

import "time"

// EventStatus is the lifecycle tag of a persisted event.
type EventStatus string

// Event lifecycle states. The pipeline only ever writes StatusActive;
// expiry and archival are downstream concerns.
const (
	StatusActive   EventStatus = "active"
	StatusArchived EventStatus = "archived"
)

// GeoPoint is a geographic location in WGS84 coordinates.
type GeoPoint struct {
	// Longitude in decimal degrees, x before y as in GeoJSON.
	Longitude float64 `json:"longitude"`

	// Latitude in decimal degrees.
	Latitude float64 `json:"latitude"`
}

// Event is the canonical unit of regulatory signal.
// It is the single record shape every source adapter normalises into.
type Event struct {
	// ID is the store-assigned identifier, set at first insert.
	ID string `json:"id,omitempty"`

	// Source is the code of the source that produced this event.
	Source SourceCode `json:"source"`

	// SourceID is the identifier assigned by the source itself
	// (process number, filing number, USGS feature id). Together with
	// Source it forms the natural key and is the sole deduplication
	// criterion. Adapters that cannot derive a stable identifier must
	// synthesize one deterministically.
	SourceID string `json:"source_id"`

	// EventType classifies the record within its source
	// (e.g. "mining_process", "embargo", "earthquake"). Open,
	// source-defined vocabulary.
	EventType string `json:"event_type"`

	// Title is a human-readable one-line summary.
	Title string `json:"title"`

	// Description is free-form detail text.
	Description string `json:"description,omitempty"`

	// Severity is the classification assigned at normalisation time.
	Severity Severity `json:"severity"`

	// Location is the geographic point, when the source provides one.
	Location *GeoPoint `json:"location,omitempty"`

	// State is the jurisdiction state/UF, source-specific granularity.
	State string `json:"state,omitempty"`

	// Municipality is the jurisdiction municipality or place name.
	Municipality string `json:"municipality,omitempty"`

	// EventDate is when the underlying real-world event occurred, as
	// reported by the source. Falls back to the fetch time when the
	// source provides no parseable date.
	EventDate time.Time `json:"event_date"`

	// DetectionDate is when the pipeline first observed this record.
	// Set once at insert, never overwritten by updates.
	DetectionDate time.Time `json:"detection_date"`

	// Status is the lifecycle tag, StatusActive by default.
	Status EventStatus `json:"status"`

	// Valid is reserved for manual invalidation; the pipeline itself
	// never sets it false.
	Valid bool `json:"valid"`

	// Metadata preserves source-specific auxiliary fields verbatim
	// (fine amounts, magnitudes, tickers). Never interpreted by the
	// orchestrator.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NaturalKey is the (source, sourceID) pair identifying one logical
// real-world event.
type NaturalKey struct {
	Source   SourceCode
	SourceID string
}

// NaturalKey returns the deduplication key of the event.
func (e *Event) NaturalKey() NaturalKey {
	return NaturalKey{Source: e.Source, SourceID: e.SourceID}
}

// ApplyDefaults fills optional fields an adapter may leave unset: an
// empty status becomes active, an unknown severity becomes Low.
func (e *Event) ApplyDefaults() {
	if e.Status == "" {
		e.Status = StatusActive
	}
	if !e.Severity.Valid() {
		e.Severity = SeverityLow
	}
}

// Identified reports whether the event carries the fields that make it
// persistable: a source, a source id and a title.
func (e *Event) Identified() bool {
	return e.Source != "" && e.SourceID != "" && e.Title != ""
}

// EventFilter narrows event listings. Zero values mean "no filter".
type EventFilter struct {
	Source    SourceCode
	EventType string
	Severity  Severity
	State     string

	// Valid filters on the manual-invalidation flag.
	// Nil means only valid events, the caller's usual intent.
	Valid *bool

	Limit  int
	Offset int
}
