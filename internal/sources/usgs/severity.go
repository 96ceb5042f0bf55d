package usgs

import "github.com/vigia-labs/radar-cli/internal/core/domain"

// EarthquakeSeverity maps moment magnitude to a severity. Thresholds
// follow the damage bands used for mine infrastructure assessments.
func EarthquakeSeverity(magnitude float64) domain.Severity {
	switch {
	case magnitude >= 7.0:
		return domain.SeverityCritical
	case magnitude >= 6.0:
		return domain.SeverityHigh
	case magnitude >= 5.0:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
