package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

var logsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the sync audit log, newest entries first",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVar(&logsLimit, "limit", 20, "maximum entries to show")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, _ []string) error {
	if logsLimit <= 0 {
		return errors.New("limit must be positive")
	}

	if err := initServices(); err != nil {
		return err
	}

	entries, err := syncLogStore.ListSyncLogs(cmd.Context(), logsLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No sync runs recorded yet.")
		return nil
	}

	for _, entry := range entries {
		if entry.Status == domain.RunError {
			cmd.Printf("%s  %-6s error  %s\n",
				entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Source, entry.Error)
			continue
		}
		cmd.Printf("%s  %-6s ok     %d records in %.0fms\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Source,
			entry.RecordsFetched, entry.ExecutionTimeMs)
	}
	return nil
}
