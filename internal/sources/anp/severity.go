package anp

import (
	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// ANP feed event types.
const (
	EventTypeBiddingRound = "bidding_round"
	EventTypeConcession   = "concession"
	EventTypeNews         = "news"
)

// FeedSeverity maps an ANP feed's event type to its fixed severity.
// Bidding rounds reshape the concession map, active concessions are
// routine contract records, everything else is informational.
func FeedSeverity(eventType string) domain.Severity {
	switch eventType {
	case EventTypeBiddingRound:
		return domain.SeverityHigh
	case EventTypeConcession:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
