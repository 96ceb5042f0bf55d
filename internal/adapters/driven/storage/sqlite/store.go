package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vigia-labs/radar-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.radar/data/radar.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".radar", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "radar.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EventStore returns an EventStore interface backed by this store.
func (s *Store) EventStore() driven.EventStore {
	return &eventStore{store: s}
}

// SyncLogStore returns a SyncLogStore interface backed by this store.
func (s *Store) SyncLogStore() driven.SyncLogStore {
	return &syncLogStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Event Store ====================

// eventStore implements driven.EventStore.
type eventStore struct {
	store *Store
}

var _ driven.EventStore = (*eventStore)(nil)

const eventColumns = `id, source, source_id, event_type, title, description, severity,
	longitude, latitude, state, municipality, event_date, detection_date,
	status, valid, metadata`

// Ping verifies the database is reachable.
func (s *eventStore) Ping(ctx context.Context) error {
	if err := s.store.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// FindByNaturalKey retrieves the event stored under (source, sourceID).
func (s *eventStore) FindByNaturalKey(
	ctx context.Context,
	source domain.SourceCode,
	sourceID string,
) (*domain.Event, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM radar_events WHERE source = ? AND source_id = ?
	`, string(source), sourceID)

	return scanEvent(row)
}

// Insert stores a new event, assigning an ID when empty.
func (s *eventStore) Insert(ctx context.Context, event *domain.Event) error {
	if !event.Identified() {
		return domain.ErrInvalidEvent
	}
	event.ApplyDefaults()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	var longitude, latitude interface{}
	if event.Location != nil {
		longitude = event.Location.Longitude
		latitude = event.Location.Latitude
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO radar_events
			(id, source, source_id, event_type, title, description, severity,
			longitude, latitude, state, municipality, event_date, detection_date,
			status, valid, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, string(event.Source), event.SourceID, event.EventType,
		event.Title, event.Description, string(event.Severity),
		longitude, latitude, event.State, event.Municipality,
		event.EventDate.UTC(), event.DetectionDate.UTC(),
		string(event.Status), boolToInt(event.Valid), string(metadataJSON))

	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of the event stored under id.
// DetectionDate and the natural key columns are never touched.
func (s *eventStore) Update(ctx context.Context, id string, event *domain.Event) error {
	if !event.Identified() {
		return domain.ErrInvalidEvent
	}
	event.ApplyDefaults()

	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	var longitude, latitude interface{}
	if event.Location != nil {
		longitude = event.Location.Longitude
		latitude = event.Location.Latitude
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE radar_events SET
			event_type = ?,
			title = ?,
			description = ?,
			severity = ?,
			longitude = ?,
			latitude = ?,
			state = ?,
			municipality = ?,
			event_date = ?,
			status = ?,
			valid = ?,
			metadata = ?
		WHERE id = ?
	`, event.EventType, event.Title, event.Description, string(event.Severity),
		longitude, latitude, event.State, event.Municipality,
		event.EventDate.UTC(), string(event.Status), boolToInt(event.Valid),
		string(metadataJSON), id)

	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns persisted events matching the filter, most recently
// detected first.
func (s *eventStore) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM radar_events"
	var clauses []string
	var args []interface{}

	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.EventType != "" {
		clauses = append(clauses, "event_type = ?")
		args = append(args, filter.EventType)
	}
	if filter.Severity != "" {
		clauses = append(clauses, "severity = ?")
		args = append(args, string(filter.Severity))
	}
	if filter.State != "" {
		clauses = append(clauses, "state = ?")
		args = append(args, filter.State)
	}
	if filter.Valid != nil {
		clauses = append(clauses, "valid = ?")
		args = append(args, boolToInt(*filter.Valid))
	} else {
		clauses = append(clauses, "valid = 1")
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY detection_date DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event //nolint:prealloc // size unknown from query
	for rows.Next() {
		event, err := scanEventRows(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// ==================== Sync Log Store ====================

// syncLogStore implements driven.SyncLogStore.
type syncLogStore struct {
	store *Store
}

var _ driven.SyncLogStore = (*syncLogStore)(nil)

// AppendSyncLog records one adapter execution.
func (s *syncLogStore) AppendSyncLog(ctx context.Context, entry domain.SyncLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO radar_sync_log (source, records_fetched, execution_time_ms, status, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(entry.Source), entry.RecordsFetched, entry.ExecutionTimeMs,
		string(entry.Status), nullString(entry.Error), entry.Timestamp.UTC())

	if err != nil {
		return fmt.Errorf("appending sync log entry: %w", err)
	}
	return nil
}

// ListSyncLogs returns the most recent entries, newest first.
func (s *syncLogStore) ListSyncLogs(ctx context.Context, limit int) ([]domain.SyncLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source, records_fetched, execution_time_ms, status, error, timestamp
		FROM radar_sync_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync log: %w", err)
	}
	defer rows.Close()

	var entries []domain.SyncLogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.SyncLogEntry
		var source, status string
		var errMsg sql.NullString
		if err := rows.Scan(&entry.ID, &source, &entry.RecordsFetched,
			&entry.ExecutionTimeMs, &status, &errMsg, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning sync log entry: %w", err)
		}
		entry.Source = domain.SourceCode(source)
		entry.Status = domain.RunStatus(status)
		if errMsg.Valid {
			entry.Error = errMsg.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync log: %w", err)
	}

	return entries, nil
}

// ==================== Helper Functions ====================

// scanEvent scans a single event row.
func scanEvent(row *sql.Row) (*domain.Event, error) {
	var event domain.Event
	var source, severity, status string
	var longitude, latitude sql.NullFloat64
	var valid int
	var metadataJSON sql.NullString

	if err := row.Scan(&event.ID, &source, &event.SourceID, &event.EventType,
		&event.Title, &event.Description, &severity,
		&longitude, &latitude, &event.State, &event.Municipality,
		&event.EventDate, &event.DetectionDate,
		&status, &valid, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	finishEvent(&event, source, severity, status, longitude, latitude, valid, metadataJSON)
	return &event, nil
}

// scanEventRows scans an event from *sql.Rows.
func scanEventRows(rows *sql.Rows) (*domain.Event, error) {
	var event domain.Event
	var source, severity, status string
	var longitude, latitude sql.NullFloat64
	var valid int
	var metadataJSON sql.NullString

	if err := rows.Scan(&event.ID, &source, &event.SourceID, &event.EventType,
		&event.Title, &event.Description, &severity,
		&longitude, &latitude, &event.State, &event.Municipality,
		&event.EventDate, &event.DetectionDate,
		&status, &valid, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	finishEvent(&event, source, severity, status, longitude, latitude, valid, metadataJSON)
	return &event, nil
}

// finishEvent maps scanned column values onto the typed fields.
func finishEvent(
	event *domain.Event,
	source, severity, status string,
	longitude, latitude sql.NullFloat64,
	valid int,
	metadataJSON sql.NullString,
) {
	event.Source = domain.SourceCode(source)
	event.Severity = domain.Severity(severity)
	event.Status = domain.EventStatus(status)
	event.Valid = valid == 1
	event.EventDate = event.EventDate.UTC()
	event.DetectionDate = event.DetectionDate.UTC()

	if longitude.Valid && latitude.Valid {
		event.Location = &domain.GeoPoint{
			Longitude: longitude.Float64,
			Latitude:  latitude.Float64,
		}
	}

	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
		// Best effort: malformed metadata is dropped, not fatal.
		_ = json.Unmarshal([]byte(metadataJSON.String), &event.Metadata)
	}
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
