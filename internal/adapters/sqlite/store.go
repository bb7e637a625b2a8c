package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"scanlog/internal/application"
	"scanlog/internal/ports"
)

const schemaVersion = "1"

// Store implements ports.KeyValueStore on a single SQLite table
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements KeyValueStore
var _ ports.KeyValueStore = (*Store)(nil)

type options struct {
	busyTimeoutMS int
	maxPageCount  int
}

// Option customises Open behaviour
type Option func(*options)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 5000.
func WithBusyTimeout(ms int) Option { return func(o *options) { o.busyTimeoutMS = ms } }

// WithMaxPageCount caps the database size in pages, the local storage quota.
// Zero (default) keeps the SQLite limit.
func WithMaxPageCount(pages int) Option { return func(o *options) { o.maxPageCount = pages } }

// Open opens (creating if needed) the database at dbPath
func Open(dbPath string, opts ...Option) (*Store, error) {
	o := options{busyTimeoutMS: 5000}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.busyTimeoutMS))
	if o.maxPageCount > 0 {
		q.Add("_pragma", fmt.Sprintf("max_page_count(%d)", o.maxPageCount))
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", mapError(err))
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get retrieves the value stored under key
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &application.StorageError{Key: key, Cause: mapError(err)}
	}
	return value, true, nil
}

// Set stores value under key in a single statement
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return &application.StorageError{Key: key, Cause: mapError(err)}
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return &application.StorageError{Key: key, Cause: mapError(err)}
	}
	return nil
}

// mapError surfaces SQLITE_FULL as the quota error callers check for
func mapError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_FULL {
		return fmt.Errorf("%w: %v", application.ErrQuotaExceeded, err)
	}
	return err
}
