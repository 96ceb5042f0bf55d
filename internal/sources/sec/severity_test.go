package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

func TestFilingSeverity(t *testing.T) {
	tests := []struct {
		title string
		want  domain.Severity
	}{
		{"8-K - Notice of SEC Investigation", domain.SeverityCritical},
		{"8-K - Restatement of Prior Financials", domain.SeverityCritical},
		{"8-K - Securities Fraud Settlement", domain.SeverityCritical},
		{"8-K - Agreement and Plan of Merger", domain.SeverityHigh},
		{"8-K - Chapter 11 Bankruptcy Filing", domain.SeverityHigh},
		{"10-K - Annual Report", domain.SeverityMedium},
		{"10-Q - Quarterly Report", domain.SeverityMedium},
		{"8-K - Change of Registered Agent", domain.SeverityLow},
		{"", domain.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, FilingSeverity(tt.title))
		})
	}
}

func TestFilingSeverityMisconductOutranksCorporate(t *testing.T) {
	// A title carrying both classes of keyword takes the higher one.
	assert.Equal(t, domain.SeverityCritical,
		FilingSeverity("8-K - Merger Abandoned After Fraud Investigation"))
}
