// Package httpapi exposes the pipeline over HTTP: trigger a sync,
// query persisted events and the run audit log, plus health and
// Prometheus metrics endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driving"
	"github.com/vigia-labs/radar-cli/internal/logger"
	"github.com/vigia-labs/radar-cli/internal/metrics"
)

// defaultListLimit caps unpaged event listings.
const defaultListLimit = 100

// Server routes API requests to the core services.
type Server struct {
	runner  driving.SyncRunner
	events  driven.EventStore
	syncLog driven.SyncLogStore
	mux     *http.ServeMux
}

// NewServer creates the API server. syncLog may be nil; the logs
// endpoint then returns empty lists.
func NewServer(runner driving.SyncRunner, events driven.EventStore, syncLog driven.SyncLogStore) *Server {
	s := &Server{
		runner:  runner,
		events:  events,
		syncLog: syncLog,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/radar/sync", s.handleSync)
	s.mux.HandleFunc("GET /api/radar/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/radar/logs", s.handleLogs)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleSync runs one complete sync and returns its stats. Partially
// failed runs still return 200 with per-source detail; only a run that
// could not execute at all is an error.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	stats, err := s.runner.RunAll(r.Context())
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		writeError(w, http.StatusConflict, err)
		return
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.RecordRun(stats)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	events, err := s.events.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(events),
		"events": events,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries := []domain.SyncLogEntry{}
	if s.syncLog != nil {
		var err error
		entries, err = s.syncLog.ListSyncLogs(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if entries == nil {
			entries = []domain.SyncLogEntry{}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(entries),
		"logs":  entries,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.events.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseFilter builds an event filter from query parameters.
func parseFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()

	filter := domain.EventFilter{
		EventType: q.Get("event_type"),
		State:     q.Get("state"),
		Limit:     defaultListLimit,
	}

	if raw := q.Get("source"); raw != "" {
		source := domain.SourceCode(raw)
		if !source.Valid() {
			return filter, errors.New("unknown source: " + raw)
		}
		filter.Source = source
	}

	if raw := q.Get("severity"); raw != "" {
		severity, ok := domain.ParseSeverity(raw)
		if !ok {
			return filter, errors.New("unknown severity: " + raw)
		}
		filter.Severity = severity
	}

	if raw := q.Get("valid"); raw != "" {
		valid, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("valid must be a boolean")
		}
		filter.Valid = &valid
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = n
	}

	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = n
	}

	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("httpapi: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
