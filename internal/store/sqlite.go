package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/bayanapp/bayan-tui/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveNotifications replaces the stored notification list with the given
// records, preserving their order. The list is capped and small, so a
// full rewrite per mutation is cheaper than tracking deltas.
func (s *SQLiteStore) SaveNotifications(
	ctx context.Context,
	records []model.Notification,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}

	const query = `
		INSERT INTO notifications (id, position, title, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing notification insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range records {
		_, err = stmt.ExecContext(ctx,
			n.ID, i, n.Title, n.Message,
			boolToInt(n.Read), n.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("inserting notification %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// LoadNotifications retrieves the stored notification list in its
// persisted order (newest first).
func (s *SQLiteStore) LoadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, title, message, read, created_at FROM notifications ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var records []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, n)
	}

	return records, rows.Err()
}

// SaveSnapshots replaces the change-detection baseline with the given
// snapshot set.
func (s *SQLiteStore) SaveSnapshots(
	ctx context.Context,
	snaps []model.Snapshot,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM report_snapshots"); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}

	const query = `
		INSERT INTO report_snapshots (id, status, problem_type)
		VALUES (?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, snap := range snaps {
		_, err = stmt.ExecContext(ctx, snap.ID, snap.Status, snap.ProblemType)
		if err != nil {
			return fmt.Errorf("inserting snapshot %d: %w", snap.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshots retrieves the baseline snapshot set keyed by report id.
// An empty map means no baseline exists yet (first run).
func (s *SQLiteStore) LoadSnapshots(
	ctx context.Context,
) (map[int]model.Snapshot, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, status, problem_type FROM report_snapshots",
	)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make(map[int]model.Snapshot)
	for rows.Next() {
		var snap model.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Status, &snap.ProblemType); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		snaps[snap.ID] = snap
	}

	return snaps, rows.Err()
}

// GetSetting returns the value stored under key, or "" when unset.
func (s *SQLiteStore) GetSetting(
	ctx context.Context,
	key string,
) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM settings WHERE key = ?", key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *SQLiteStore) SetSetting(
	ctx context.Context,
	key, value string,
) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// scanNotification scans a notification row from a sqlx.Rows result set.
func scanNotification(rows *sqlx.Rows) (model.Notification, error) {
	var (
		n         model.Notification
		readInt   int
		createdAt time.Time
	)

	err := rows.Scan(&n.ID, &n.Title, &n.Message, &readInt, &createdAt)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Read = readInt != 0
	n.CreatedAt = createdAt

	return n, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
