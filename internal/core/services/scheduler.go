package services

import (
	"context"
	"sync"
	"time"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driving"
	"github.com/vigia-labs/radar-cli/internal/logger"
)

// schedulerTick is how often the loop checks whether the sync task is
// due.
const schedulerTick = time.Minute

// Scheduler re-runs the full sync on a fixed interval. Task state is
// persisted so the schedule survives restarts.
type Scheduler struct {
	config domain.SchedulerConfig
	store  driven.SchedulerStore
	runner driving.SyncRunner

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	runner driving.SyncRunner,
) *Scheduler {
	return &Scheduler{
		config: config,
		store:  store,
		runner: runner,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.ensureTask(ctx); err != nil {
		logger.Warn("scheduler: initialising task: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler and waits for a running
// sync to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// ensureTask creates or refreshes the sync task in the store.
func (s *Scheduler) ensureTask(ctx context.Context) error {
	task, err := s.store.GetTask(ctx, domain.TaskIDRadarSync)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       domain.TaskIDRadarSync,
			Name:     "Full regulatory sync",
			Interval: s.config.Interval,
			Enabled:  s.config.Enabled,
			NextRun:  time.Now().Add(s.config.Interval),
		}
	} else {
		if task.Interval != s.config.Interval {
			task.Interval = s.config.Interval
			task.NextRun = time.Now().Add(s.config.Interval)
		}
		task.Enabled = s.config.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	s.checkAndRun(ctx)

	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

// checkAndRun executes the sync task when it is due.
func (s *Scheduler) checkAndRun(ctx context.Context) {
	task, err := s.store.GetTask(ctx, domain.TaskIDRadarSync)
	if err != nil {
		logger.Warn("scheduler: loading task: %v", err)
		return
	}
	if task == nil || !task.Enabled {
		return
	}

	now := time.Now()
	if task.NextRun.After(now) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		start := time.Now()
		stats, err := s.runner.RunAll(ctx)

		task.LastRun = start
		switch {
		case err != nil:
			task.LastError = err.Error()
			logger.Error("scheduler: sync run failed: %v", err)
		case stats.TotalErrors > 0:
			task.LastError = ""
			task.LastSuccess = time.Now()
			logger.Warn("scheduler: sync finished with %d source errors", stats.TotalErrors)
		default:
			task.LastError = ""
			task.LastSuccess = time.Now()
		}
		task.NextRun = time.Now().Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Warn("scheduler: saving task: %v", saveErr)
		}
	}()
}
