package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driving"
	"github.com/vigia-labs/radar-cli/internal/logger"
)

// DefaultWorkers bounds how many source adapters fetch concurrently.
const DefaultWorkers = 6

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncRunner = (*SyncOrchestrator)(nil)

// SyncOrchestrator coordinates one full pipeline run: every registered
// adapter fetches and normalises its records, and each event is
// upserted under its natural key. Source failures are isolated; only
// an unreachable event store aborts the run.
type SyncOrchestrator struct {
	adapters []driven.SourceAdapter
	events   driven.EventStore
	syncLog  driven.SyncLogStore
	workers  int

	mu      sync.Mutex
	running bool
}

// NewSyncOrchestrator creates a sync orchestrator. syncLog may be nil,
// in which case no audit entries are written. workers <= 0 takes
// DefaultWorkers.
func NewSyncOrchestrator(
	adapters []driven.SourceAdapter,
	events driven.EventStore,
	syncLog driven.SyncLogStore,
	workers int,
) *SyncOrchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &SyncOrchestrator{
		adapters: adapters,
		events:   events,
		syncLog:  syncLog,
		workers:  workers,
	}
}

// RunAll executes one complete sync across all adapters. It returns
// aggregate stats for successful and partially failed runs alike; the
// error is non-nil only when the run could not execute at all.
func (o *SyncOrchestrator) RunAll(ctx context.Context) (*domain.SyncRunStats, error) {
	if !o.tryAcquire() {
		return nil, domain.ErrSyncInProgress
	}
	defer o.release()

	// The store must be reachable before any adapter spends a fetch.
	if err := o.events.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	stats := &domain.SyncRunStats{
		StartTime: time.Now().UTC(),
		Sources:   make(map[domain.SourceCode]domain.SourceRunResult, len(o.adapters)),
	}

	logger.Section(fmt.Sprintf("Sync run: %d sources, %d workers", len(o.adapters), o.workers))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, o.workers)
	)

	for _, adapter := range o.adapters {
		wg.Add(1)
		go func(adapter driven.SourceAdapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := o.runSource(ctx, adapter)

			mu.Lock()
			stats.Sources[adapter.Source()] = result
			stats.TotalFetched += result.Fetched
			stats.TotalNew += result.New
			stats.TotalUpdated += result.Updated
			if result.Status == domain.RunError {
				stats.TotalErrors++
			}
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	stats.EndTime = time.Now().UTC()
	stats.DurationSeconds = stats.EndTime.Sub(stats.StartTime).Seconds()

	logger.Info("Sync complete: %d fetched, %d new, %d updated, %d source errors in %.1fs",
		stats.TotalFetched, stats.TotalNew, stats.TotalUpdated,
		stats.TotalErrors, stats.DurationSeconds)
	return stats, nil
}

// runSource executes one adapter end to end and returns its result.
// Panics in adapter code are contained here so a single misbehaving
// source cannot take the run down.
func (o *SyncOrchestrator) runSource(ctx context.Context, adapter driven.SourceAdapter) (result domain.SourceRunResult) {
	source := adapter.Source()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = domain.SourceRunResult{
				DurationSeconds: time.Since(start).Seconds(),
				Status:          domain.RunError,
				Error:           fmt.Sprintf("panic: %v", r),
			}
			logger.Error("[%s] adapter panicked: %v", source, r)
		}
		o.appendLog(ctx, source, result)
	}()

	events, err := adapter.FetchAll(ctx)
	if err != nil {
		logger.Error("[%s] fetch failed: %v", source, err)
		return domain.SourceRunResult{
			DurationSeconds: time.Since(start).Seconds(),
			Status:          domain.RunError,
			Error:           err.Error(),
		}
	}

	result = domain.SourceRunResult{
		Fetched: len(events),
		Status:  domain.RunSuccess,
	}
	for i := range events {
		inserted, err := o.upsert(ctx, &events[i])
		if err != nil {
			// One bad event never aborts the rest of the source.
			logger.Warn("[%s] persisting %s: %v", source, events[i].SourceID, err)
			continue
		}
		if inserted {
			result.New++
		} else {
			result.Updated++
		}
	}
	result.DurationSeconds = time.Since(start).Seconds()

	logger.Info("[%s] %d fetched, %d new, %d updated in %.1fs",
		source, result.Fetched, result.New, result.Updated, result.DurationSeconds)
	return result
}

// upsert persists one event under its natural key. It reports true
// when the event was inserted for the first time. An update that
// writes identical values still counts as an update.
func (o *SyncOrchestrator) upsert(ctx context.Context, event *domain.Event) (bool, error) {
	if !event.Identified() {
		return false, domain.ErrInvalidEvent
	}
	event.ApplyDefaults()

	existing, err := o.events.FindByNaturalKey(ctx, event.Source, event.SourceID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		event.DetectionDate = time.Now().UTC()
		if err := o.events.Insert(ctx, event); err != nil {
			return false, fmt.Errorf("insert: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("lookup: %w", err)

	default:
		// First observation wins; refreshes never move it.
		event.DetectionDate = existing.DetectionDate
		if err := o.events.Update(ctx, existing.ID, event); err != nil {
			return false, fmt.Errorf("update: %w", err)
		}
		return false, nil
	}
}

// appendLog writes the audit entry for one source execution.
// Best-effort: a failed write is logged and swallowed.
func (o *SyncOrchestrator) appendLog(ctx context.Context, source domain.SourceCode, result domain.SourceRunResult) {
	if o.syncLog == nil {
		return
	}

	entry := domain.SyncLogEntry{
		Source:          source,
		RecordsFetched:  result.Fetched,
		ExecutionTimeMs: result.DurationSeconds * 1000,
		Status:          result.Status,
		Error:           result.Error,
		Timestamp:       time.Now().UTC(),
	}
	if err := o.syncLog.AppendSyncLog(ctx, entry); err != nil {
		logger.Warn("[%s] writing sync log entry: %v", source, err)
	}
}

func (o *SyncOrchestrator) tryAcquire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return false
	}
	o.running = true
	return true
}

func (o *SyncOrchestrator) release() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}
