package cprm

import (
	"strings"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// ProjectSeverity maps a survey project type to a severity. Risk and
// environmental mapping projects flag areas that can constrain nearby
// operations.
func ProjectSeverity(projectType string) domain.Severity {
	t := strings.ToLower(projectType)
	switch {
	case strings.Contains(t, "ambiental"), strings.Contains(t, "risco"):
		return domain.SeverityHigh
	case strings.Contains(t, "pesquisa"), strings.Contains(t, "exploração"):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
