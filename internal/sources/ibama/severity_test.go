package ibama

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

func TestLicenseSeverity(t *testing.T) {
	tests := []struct {
		licenseType string
		want        domain.Severity
	}{
		{"LP", domain.SeverityLow},
		{"lp", domain.SeverityLow},
		{"LI", domain.SeverityMedium},
		{"LO", domain.SeverityHigh},
		{"Autorização Especial", domain.SeverityMedium},
		{"", domain.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.licenseType, func(t *testing.T) {
			assert.Equal(t, tt.want, LicenseSeverity(tt.licenseType))
		})
	}
}
