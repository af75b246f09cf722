package usage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS usage_records (
    id TEXT PRIMARY KEY,
    time TIMESTAMP NOT NULL,
    session_id TEXT NOT NULL,
    request_id TEXT NOT NULL,
    provider TEXT NOT NULL,
    model TEXT,
    status TEXT NOT NULL,
    tokens INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_usage_time ON usage_records(time);
CREATE INDEX IF NOT EXISTS idx_usage_provider ON usage_records(provider);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path
	Path string

	// MaxOpenConns caps open connections (default 10)
	MaxOpenConns int

	// MaxIdleConns caps idle connections (default 5)
	MaxIdleConns int

	// BusyTimeout is the wait when the database is locked (default 5s)
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "lifelayer-usage.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage on a SQLite database with WAL mode
// enabled for concurrent readers.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database and applies
// the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		logger: slog.Default().With("component", "usage.sqlite"),
	}

	if err := s.initialize(config); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("usage storage initialized", "path", config.Path)

	return s, nil
}

func (s *SQLiteStorage) initialize(config *SQLiteConfig) error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return NewStorageError("sqlite", "enable_wal", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists one usage record.
func (s *SQLiteStorage) Store(ctx context.Context, record *Record) error {
	var errVal any
	if record.Error != "" {
		errVal = record.Error
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_records (
			id, time, session_id, request_id, provider, model, status, tokens, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Time, record.SessionID, record.RequestID,
		record.Provider, record.Model, record.Status, record.Tokens,
		record.DurationMS, errVal,
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usage_records").Scan(&count); err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStorage) Recent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, time, session_id, request_id, provider, model, status, tokens, duration_ms, COALESCE(error, '')
		FROM usage_records ORDER BY time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, NewStorageError("sqlite", "recent", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Time, &r.SessionID, &r.RequestID,
			&r.Provider, &r.Model, &r.Status, &r.Tokens, &r.DurationMS, &r.Error); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "recent", err)
	}

	return records, nil
}

// DeleteOlderThan removes records older than cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM usage_records WHERE time < ?", cutoff)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "rows_affected", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
