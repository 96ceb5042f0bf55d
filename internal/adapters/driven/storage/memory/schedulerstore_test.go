package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

func TestSchedulerStoreRoundTrip(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	missing, err := store.GetTask(ctx, domain.TaskIDRadarSync)
	require.NoError(t, err)
	assert.Nil(t, missing)

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDRadarSync,
		Name:     "Full regulatory sync",
		Interval: time.Hour,
		Enabled:  true,
	}
	require.NoError(t, store.SaveTask(ctx, task))

	got, err := store.GetTask(ctx, domain.TaskIDRadarSync)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Hour, got.Interval)

	// Mutating the returned copy must not affect the stored task.
	got.Interval = time.Minute
	again, err := store.GetTask(ctx, domain.TaskIDRadarSync)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, again.Interval)
}
