// Package normalize holds the pure helpers adapters share when turning
// raw source payloads into canonical events: ordered date parsing with
// a documented fallback and deterministic identifier synthesis.
package normalize

import "time"

// DefaultDateLayouts is the ordered list of layouts tried by ParseDate
// when the caller provides none. It covers the formats observed across
// the Brazilian agency feeds and the US filings.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses s against the given layouts in order and returns
// the first match. The boolean reports success; ParseDate never
// panics or returns an error on malformed input.
func ParseDate(s string, layouts ...string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DateOrNow parses s like ParseDate but falls back to the current time
// on total failure. A bad date must never abort a fetch.
func DateOrNow(s string, layouts ...string) time.Time {
	if t, ok := ParseDate(s, layouts...); ok {
		return t
	}
	return time.Now().UTC()
}

// EpochMillis converts a Unix-milliseconds timestamp (the USGS event
// time encoding) to UTC.
func EpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
