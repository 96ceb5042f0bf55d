package sec

import (
	"strings"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// FilingSeverity maps a filing title to a severity by keyword.
// Misconduct markers outrank corporate events, which outrank
// periodic reports.
func FilingSeverity(title string) domain.Severity {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, "investigation", "violation", "fraud", "restatement"):
		return domain.SeverityCritical
	case containsAny(t, "acquisition", "merger", "bankruptcy"):
		return domain.SeverityHigh
	case containsAny(t, "10-k", "10-q"):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
