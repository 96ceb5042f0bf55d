package domain

import "strings"

// Severity classifies the operational importance of an event.
// The order is total: Low < Medium < High < Critical.
// It is assigned once by the source adapter at normalisation time and
// never recomputed downstream.
type Severity string

// Severity levels, lowest to highest.
const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// severityRanks maps each level to its position in the total order.
var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the position of s in the severity order.
// Unknown values rank below Low.
func (s Severity) Rank() int {
	rank, ok := severityRanks[s]
	if !ok {
		return -1
	}
	return rank
}

// ParseSeverity canonicalises a user-supplied severity name to one of
// the four levels. Matching is case-insensitive; ok is false for
// unknown names.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "low":
		return SeverityLow, true
	case "medium":
		return SeverityMedium, true
	case "high":
		return SeverityHigh, true
	case "critical":
		return SeverityCritical, true
	}
	return "", false
}

// Valid reports whether s is one of the four known levels.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Less reports whether s is strictly less severe than other.
func (s Severity) Less(other Severity) bool {
	return s.Rank() < other.Rank()
}

// String returns the severity name.
func (s Severity) String() string {
	return string(s)
}
