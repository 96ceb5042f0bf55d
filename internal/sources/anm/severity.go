package anm

import (
	"strings"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// ProcessSeverity maps a mining process phase to a severity.
// Deterministic lookup, no external calls.
func ProcessSeverity(fase string) domain.Severity {
	f := strings.ToLower(fase)
	switch {
	case strings.Contains(f, "embargo"), strings.Contains(f, "suspensão"):
		return domain.SeverityCritical
	case strings.Contains(f, "autuação"), strings.Contains(f, "multa"):
		return domain.SeverityHigh
	case strings.Contains(f, "licenciamento"):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
