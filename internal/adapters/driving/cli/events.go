package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

var (
	eventsSource   string
	eventsType     string
	eventsSeverity string
	eventsState    string
	eventsInvalid  bool
	eventsLimit    int
	eventsOffset   int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List persisted events, newest detections first",
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSource, "source", "", "filter by source (ANM, CPRM, ANP, IBAMA, USGS, SEC)")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "filter by event type")
	eventsCmd.Flags().StringVar(&eventsSeverity, "severity", "", "filter by severity (low, medium, high, critical)")
	eventsCmd.Flags().StringVar(&eventsState, "state", "", "filter by state/region code")
	eventsCmd.Flags().BoolVar(&eventsInvalid, "invalid", false, "show invalidated events instead of valid ones")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum events to list")
	eventsCmd.Flags().IntVar(&eventsOffset, "offset", 0, "events to skip")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	filter, err := eventsFilter()
	if err != nil {
		return err
	}

	if err := initServices(); err != nil {
		return err
	}

	events, err := eventStore.List(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		cmd.Println("No events found.")
		return nil
	}

	for _, event := range events {
		line := []string{
			event.DetectionDate.Format("2006-01-02"),
			string(event.Source),
			strings.ToUpper(string(event.Severity)),
			event.Title,
		}
		cmd.Println(strings.Join(line, "  "))
	}
	cmd.Printf("\n%d event(s)\n", len(events))
	return nil
}

func eventsFilter() (domain.EventFilter, error) {
	filter := domain.EventFilter{
		EventType: eventsType,
		State:     eventsState,
		Limit:     eventsLimit,
		Offset:    eventsOffset,
	}

	if eventsSource != "" {
		source := domain.SourceCode(strings.ToUpper(eventsSource))
		if !source.Valid() {
			return filter, errors.New("unknown source: " + eventsSource)
		}
		filter.Source = source
	}
	if eventsSeverity != "" {
		severity, ok := domain.ParseSeverity(eventsSeverity)
		if !ok {
			return filter, errors.New("unknown severity: " + eventsSeverity)
		}
		filter.Severity = severity
	}
	if eventsInvalid {
		invalid := false
		filter.Valid = &invalid
	}
	if filter.Limit <= 0 {
		return filter, errors.New("limit must be positive")
	}
	if filter.Offset < 0 {
		return filter, errors.New("offset must be non-negative")
	}
	return filter, nil
}
