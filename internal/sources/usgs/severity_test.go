package usgs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

func TestEarthquakeSeverity(t *testing.T) {
	tests := []struct {
		magnitude float64
		want      domain.Severity
	}{
		{8.1, domain.SeverityCritical},
		{7.0, domain.SeverityCritical},
		{6.9, domain.SeverityHigh},
		{6.0, domain.SeverityHigh},
		{5.5, domain.SeverityMedium},
		{5.0, domain.SeverityMedium},
		{4.9, domain.SeverityLow},
		{4.0, domain.SeverityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EarthquakeSeverity(tt.magnitude), "magnitude %.1f", tt.magnitude)
	}
}
