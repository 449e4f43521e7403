package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hpungsan/strategist/internal/errors"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// SQLiteStore is the default on-disk Store, one row per slot.
type SQLiteStore struct {
	db    *sql.DB
	quota int64
}

// Open initializes the slot database at baseDir/strategist.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.strategist.
// A quota of 0 applies DefaultQuotaBytes; a negative quota disables the check.
func Open(baseDir string, quota int64) (*SQLiteStore, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "strategist.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(dbPath, 0600)

	if quota == 0 {
		quota = DefaultQuotaBytes
	}
	return &SQLiteStore{db: db, quota: quota}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SetPoolLimits applies connection pool settings. Only sets limits for
// non-zero values; 0 keeps the sql.DB default.
func (s *SQLiteStore) SetPoolLimits(maxOpen, maxIdle int) {
	if maxOpen > 0 {
		s.db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		s.db.SetMaxIdleConns(maxIdle)
	}
}

// Get returns the value stored under key, with ok=false when absent.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewTransientWrite(err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any existing value. The write is
// rejected with QUOTA_EXCEEDED when it would push total stored bytes past the
// quota; the previously stored value for the key is left untouched.
func (s *SQLiteStore) Set(key, value string) error {
	if s.quota > 0 {
		usage, err := s.usageExcluding(key)
		if err != nil {
			return err
		}
		attempted := usage + int64(len(key)) + int64(len(value))
		if attempted > s.quota {
			return errors.NewQuotaExceeded(s.quota, attempted)
		}
	}

	_, err := s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return errors.NewTransientWrite(err)
	}
	return nil
}

// Delete removes the slot for key. Missing keys are a no-op.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return errors.NewTransientWrite(err)
	}
	return nil
}

// Keys returns all keys with the given prefix.
func (s *SQLiteStore) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT key FROM slots WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, errors.NewTransientWrite(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.NewTransientWrite(err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewTransientWrite(err)
	}
	return keys, nil
}

// usageExcluding sums stored bytes across all slots except the one being
// replaced, so overwriting a large slot with a smaller value always succeeds.
func (s *SQLiteStore) usageExcluding(key string) (int64, error) {
	var usage int64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(LENGTH(key) + LENGTH(value)), 0)
		FROM slots WHERE key != ?`, key).Scan(&usage)
	if err != nil {
		return 0, errors.NewTransientWrite(err)
	}
	return usage, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS slots (
		  key        TEXT PRIMARY KEY,
		  value      TEXT NOT NULL,
		  updated_at INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// getUserVersion returns the current schema version (user_version pragma).
func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// setUserVersion sets the schema version (user_version pragma).
func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
