package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityOrder(t *testing.T) {
	ordered := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

	for i := 0; i < len(ordered)-1; i++ {
		assert.True(t, ordered[i].Less(ordered[i+1]),
			"%s should be less than %s", ordered[i], ordered[i+1])
		assert.False(t, ordered[i+1].Less(ordered[i]))
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 0, SeverityLow.Rank())
	assert.Equal(t, 1, SeverityMedium.Rank())
	assert.Equal(t, 2, SeverityHigh.Rank())
	assert.Equal(t, 3, SeverityCritical.Rank())
	assert.Equal(t, -1, Severity("Unknown").Rank())
}

func TestSeverityValid(t *testing.T) {
	assert.True(t, SeverityLow.Valid())
	assert.True(t, SeverityCritical.Valid())
	assert.False(t, Severity("").Valid())
	assert.False(t, Severity("low").Valid(), "severity names are case sensitive")
}

func TestParseSeverity(t *testing.T) {
	for _, raw := range []string{"high", "High", "HIGH"} {
		severity, ok := ParseSeverity(raw)
		assert.True(t, ok, "input %q", raw)
		assert.Equal(t, SeverityHigh, severity, "input %q", raw)
	}

	severity, ok := ParseSeverity("critical")
	assert.True(t, ok)
	assert.Equal(t, SeverityCritical, severity)

	for _, raw := range []string{"", "catastrophic", "hi"} {
		_, ok := ParseSeverity(raw)
		assert.False(t, ok, "input %q", raw)
	}
}

func TestUnknownSeverityRanksBelowLow(t *testing.T) {
	assert.True(t, Severity("bogus").Less(SeverityLow))
}
