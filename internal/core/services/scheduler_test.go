package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigia-labs/radar-cli/internal/adapters/driven/storage/memory"
	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// countingRunner records how many times it was invoked.
type countingRunner struct {
	runs atomic.Int32
}

func (r *countingRunner) RunAll(_ context.Context) (*domain.SyncRunStats, error) {
	r.runs.Add(1)
	return &domain.SyncRunStats{
		StartTime: time.Now(),
		EndTime:   time.Now(),
		Sources:   map[domain.SourceCode]domain.SourceRunResult{},
	}, nil
}

func TestSchedulerRunsDueTaskOnStart(t *testing.T) {
	store := memory.NewSchedulerStore()
	runner := &countingRunner{}

	// Persist a task that is already due.
	require.NoError(t, store.SaveTask(context.Background(), &domain.ScheduledTask{
		ID:       domain.TaskIDRadarSync,
		Name:     "Full regulatory sync",
		Interval: time.Hour,
		NextRun:  time.Now().Add(-time.Minute),
		Enabled:  true,
	}))

	s := NewScheduler(domain.SchedulerConfig{Enabled: true, Interval: time.Hour}, store, runner)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		return runner.runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.NoError(t, <-done)

	task, err := store.GetTask(context.Background(), domain.TaskIDRadarSync)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.False(t, task.LastRun.IsZero())
	assert.False(t, task.LastSuccess.IsZero())
	assert.True(t, task.NextRun.After(time.Now()), "next run is rescheduled one interval out")
}

func TestSchedulerSkipsDisabledTask(t *testing.T) {
	store := memory.NewSchedulerStore()
	runner := &countingRunner{}

	s := NewScheduler(domain.SchedulerConfig{Enabled: false, Interval: time.Hour}, store, runner)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	// Give the startup check a moment; the disabled task must not run.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, s.Stop())
	<-done

	assert.Equal(t, int32(0), runner.runs.Load())
}

func TestSchedulerCreatesTaskOnFirstStart(t *testing.T) {
	store := memory.NewSchedulerStore()
	runner := &countingRunner{}

	s := NewScheduler(domain.SchedulerConfig{Enabled: true, Interval: 30 * time.Minute}, store, runner)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		task, err := store.GetTask(context.Background(), domain.TaskIDRadarSync)
		return err == nil && task != nil
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	<-done

	task, err := store.GetTask(context.Background(), domain.TaskIDRadarSync)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, task.Interval)
	assert.True(t, task.Enabled)
}

func TestSchedulerStopIdempotent(t *testing.T) {
	s := NewScheduler(domain.SchedulerConfig{}, memory.NewSchedulerStore(), &countingRunner{})
	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}
