package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"firedam/internal/domain"
	"firedam/internal/ports"

	_ "modernc.org/sqlite"
)

const (
	schemaVersion = "1"
	backendName   = "sqlite"
)

// ErrSchemaMismatch is returned when a snapshot was written by an
// incompatible version
var ErrSchemaMismatch = errors.New("snapshot schema mismatch")

// Store is a local SQLite copy of the catalogue. It implements
// ports.DocumentQuerier, ports.ObjectLister and ports.SnapshotStore.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ ports.DocumentQuerier = (*Store)(nil)
	_ ports.ObjectLister    = (*Store)(nil)
	_ ports.SnapshotStore   = (*Store)(nil)
)

// Open opens or creates the snapshot at path
func Open(path string) (*Store, error) {
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		);
		CREATE TABLE IF NOT EXISTS objects (
			bucket TEXT NOT NULL,
			name TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (bucket, name)
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

	s := &Store{db: db, path: path}
	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenExisting opens a snapshot that must already exist
func OpenExisting(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("snapshot %s is not a file", path)
	}
	return Open(path)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the snapshot file path
func (s *Store) Path() string {
	return s.path
}

// TakenAt returns when the snapshot was last committed. The zero time
// means it never was.
func (s *Store) TakenAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'taken_at'").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return domain.ParseTimestamp(value)
}

// checkSchema stamps a new snapshot and rejects one of another version
func (s *Store) checkSchema() error {
	var version string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = s.db.Exec("INSERT INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
		return err
	}
	if err != nil {
		return err
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: got version %s, want %s", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (ports.SnapshotTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &snapshotTx{tx: tx}, nil
}
