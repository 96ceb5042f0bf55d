package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

func TestLogsCmd_Use(t *testing.T) {
	assert.Equal(t, "logs", logsCmd.Use)
}

func TestLogsCmd_PrintsEntries(t *testing.T) {
	store, cleanup := setupTestServices(&stubRunner{})
	defer cleanup()

	require.NoError(t, store.AppendSyncLog(context.Background(), domain.SyncLogEntry{
		Source:          domain.SourceIBAMA,
		RecordsFetched:  12,
		ExecutionTimeMs: 340,
		Status:          domain.RunSuccess,
		Timestamp:       time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.AppendSyncLog(context.Background(), domain.SyncLogEntry{
		Source:    domain.SourceSEC,
		Status:    domain.RunError,
		Error:     "edgar timeout",
		Timestamp: time.Date(2025, 3, 2, 10, 1, 0, 0, time.UTC),
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"logs"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "IBAMA")
	assert.Contains(t, buf.String(), "12 records")
	assert.Contains(t, buf.String(), "edgar timeout")
}

func TestLogsCmd_EmptyLog(t *testing.T) {
	_, cleanup := setupTestServices(&stubRunner{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"logs"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No sync runs recorded yet.")
}

func TestLogsCmd_RejectsBadLimit(t *testing.T) {
	_, cleanup := setupTestServices(&stubRunner{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"logs", "--limit", "-1"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "limit must be positive")
}
