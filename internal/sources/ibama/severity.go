package ibama

import (
	"strings"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// LicenseSeverity maps an environmental license class to a severity.
// LP (prévia) precedes construction, LI (instalação) precedes operation
// and LO (operação) authorises the running plant.
func LicenseSeverity(licenseType string) domain.Severity {
	t := strings.ToUpper(licenseType)
	switch {
	case strings.Contains(t, "LP"):
		return domain.SeverityLow
	case strings.Contains(t, "LI"):
		return domain.SeverityMedium
	case strings.Contains(t, "LO"):
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}
