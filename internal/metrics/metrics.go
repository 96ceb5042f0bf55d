// Package metrics exposes Prometheus instrumentation for the sync
// pipeline. Collectors register on the default registry and are served
// by the HTTP API's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

var (
	eventsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_events_fetched_total",
		Help: "Events fetched from each source across all runs.",
	}, []string{"source"})

	eventsNew = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_events_new_total",
		Help: "Events inserted for the first time, per source.",
	}, []string{"source"})

	eventsUpdated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_events_updated_total",
		Help: "Events refreshed under an existing natural key, per source.",
	}, []string{"source"})

	sourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_source_errors_total",
		Help: "Failed adapter executions, per source.",
	}, []string{"source"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radar_sync_run_duration_seconds",
		Help:    "Wall time of complete sync runs.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_sync_runs_total",
		Help: "Completed sync runs by outcome.",
	}, []string{"outcome"})
)

// RecordRun folds one run's stats into the collectors.
func RecordRun(stats *domain.SyncRunStats) {
	if stats == nil {
		return
	}

	for source, result := range stats.Sources {
		label := string(source)
		eventsFetched.WithLabelValues(label).Add(float64(result.Fetched))
		eventsNew.WithLabelValues(label).Add(float64(result.New))
		eventsUpdated.WithLabelValues(label).Add(float64(result.Updated))
		if result.Status == domain.RunError {
			sourceErrors.WithLabelValues(label).Inc()
		}
	}

	runDuration.Observe(stats.DurationSeconds)
	outcome := "success"
	if stats.TotalErrors > 0 {
		outcome = "partial"
	}
	runsTotal.WithLabelValues(outcome).Inc()
}
