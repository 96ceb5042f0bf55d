package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/metrics"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch all sources and persist new and changed events",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	stats, err := syncRunner.RunAll(cmd.Context())
	if err != nil {
		return err
	}
	metrics.RecordRun(stats)

	cmd.Printf("Sync finished in %.1fs\n\n", stats.DurationSeconds)
	for _, source := range domain.AllSources() {
		result, ok := stats.Sources[source]
		if !ok {
			continue
		}
		if result.Status == domain.RunError {
			cmd.Printf("  %-6s error: %s\n", source, result.Error)
			continue
		}
		cmd.Printf("  %-6s fetched %d, new %d, updated %d\n",
			source, result.Fetched, result.New, result.Updated)
	}
	cmd.Printf("\nTotal: fetched %d, new %d, updated %d, errors %d\n",
		stats.TotalFetched, stats.TotalNew, stats.TotalUpdated, stats.TotalErrors)

	if stats.TotalErrors > 0 {
		return fmt.Errorf("%d source(s) failed", stats.TotalErrors)
	}
	return nil
}
