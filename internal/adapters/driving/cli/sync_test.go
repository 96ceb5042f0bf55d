package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_PrintsPerSourceResults(t *testing.T) {
	_, cleanup := setupTestServices(&stubRunner{stats: &domain.SyncRunStats{
		DurationSeconds: 1.5,
		TotalFetched:    7,
		TotalNew:        4,
		TotalUpdated:    3,
		Sources: map[domain.SourceCode]domain.SourceRunResult{
			domain.SourceANM:  {Fetched: 5, New: 3, Updated: 2, Status: domain.RunSuccess},
			domain.SourceUSGS: {Fetched: 2, New: 1, Updated: 1, Status: domain.RunSuccess},
		},
	}})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sync"})

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "ANM")
	assert.Contains(t, buf.String(), "fetched 5, new 3, updated 2")
	assert.Contains(t, buf.String(), "Total: fetched 7, new 4, updated 3, errors 0")
}

func TestSyncCmd_FailsWhenSourcesErrored(t *testing.T) {
	_, cleanup := setupTestServices(&stubRunner{stats: &domain.SyncRunStats{
		TotalErrors: 1,
		Sources: map[domain.SourceCode]domain.SourceRunResult{
			domain.SourceSEC: {Status: domain.RunError, Error: "edgar timeout"},
		},
	}})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 source(s) failed")
	assert.Contains(t, buf.String(), "edgar timeout")
}

func TestSyncCmd_PropagatesRunError(t *testing.T) {
	_, cleanup := setupTestServices(&stubRunner{err: domain.ErrStoreUnavailable})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
