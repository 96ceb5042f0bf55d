// Package memory provides in-memory implementations of the driven
// storage ports. They are used by tests and by ephemeral runs that do
// not need persistence.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
)

// Ensure EventStore implements the interfaces.
var (
	_ driven.EventStore   = (*EventStore)(nil)
	_ driven.SyncLogStore = (*EventStore)(nil)
)

// EventStore is an in-memory implementation of driven.EventStore and
// driven.SyncLogStore.
type EventStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.Event
	byKey   map[domain.NaturalKey]string
	syncLog []domain.SyncLogEntry
	nextLog int64

	// PingErr, when set, is returned by Ping. Tests use it to simulate
	// an unreachable store.
	PingErr error
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		byID:  make(map[string]domain.Event),
		byKey: make(map[domain.NaturalKey]string),
	}
}

// Ping reports the simulated reachability of the store.
func (s *EventStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PingErr
}

// FindByNaturalKey returns the event stored under (source, sourceID).
func (s *EventStore) FindByNaturalKey(
	_ context.Context,
	source domain.SourceCode,
	sourceID string,
) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[domain.NaturalKey{Source: source, SourceID: sourceID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	event := s.byID[id]
	return &event, nil
}

// Insert stores a new event, assigning an ID when empty.
func (s *EventStore) Insert(_ context.Context, event *domain.Event) error {
	if !event.Identified() {
		return domain.ErrInvalidEvent
	}
	event.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := event.NaturalKey()
	if _, exists := s.byKey[key]; exists {
		return domain.ErrInvalidEvent
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	s.byID[event.ID] = *event
	s.byKey[key] = event.ID
	return nil
}

// Update overwrites the mutable fields of the event stored under id.
// DetectionDate and the natural key are preserved from the stored row.
func (s *EventStore) Update(_ context.Context, id string, event *domain.Event) error {
	if !event.Identified() {
		return domain.ErrInvalidEvent
	}
	event.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}

	updated := *event
	updated.ID = existing.ID
	updated.Source = existing.Source
	updated.SourceID = existing.SourceID
	updated.DetectionDate = existing.DetectionDate
	s.byID[id] = updated
	return nil
}

// List returns events matching the filter, most recently detected
// first.
func (s *EventStore) List(_ context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []domain.Event
	for _, event := range s.byID {
		if !matches(event, filter) {
			continue
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].DetectionDate.After(events[j].DetectionDate)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(events) {
			return nil, nil
		}
		events = events[filter.Offset:]
	}
	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
	}
	return events, nil
}

// AppendSyncLog records one adapter execution.
func (s *EventStore) AppendSyncLog(_ context.Context, entry domain.SyncLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLog++
	entry.ID = s.nextLog
	s.syncLog = append(s.syncLog, entry)
	return nil
}

// ListSyncLogs returns the most recent entries, newest first.
func (s *EventStore) ListSyncLogs(_ context.Context, limit int) ([]domain.SyncLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.SyncLogEntry, len(s.syncLog))
	copy(entries, s.syncLog)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func matches(event domain.Event, filter domain.EventFilter) bool {
	if filter.Source != "" && event.Source != filter.Source {
		return false
	}
	if filter.EventType != "" && event.EventType != filter.EventType {
		return false
	}
	if filter.Severity != "" && event.Severity != filter.Severity {
		return false
	}
	if filter.State != "" && event.State != filter.State {
		return false
	}
	if filter.Valid == nil {
		return event.Valid
	}
	return event.Valid == *filter.Valid
}
