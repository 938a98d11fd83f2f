// Package history keeps a SQLite record of generation runs in
// .jbgen/history.db: which files each run rewrote, their content before
// the run, and the hash of what was written. That is enough to undo a run
// and to skip files that have not changed since jbgen last wrote them.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run id is unknown or no run exists.
var ErrRunNotFound = errors.New("run not found")

// ErrAlreadyUndone is returned when undoing a run twice.
var ErrAlreadyUndone = errors.New("run already undone")

// Store manages the history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the history database at dbPath.
// It initializes the schema if the database is new.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Stats counts what the database holds.
type Stats struct {
	Runs      int64
	Changes   int64
	FileIndex int64
}

// GetStats returns statistics about the history contents.
func (s *Store) GetStats() (*Stats, error) {
	var stats Stats

	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&stats.Runs); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM file_changes").Scan(&stats.Changes); err != nil {
		return nil, fmt.Errorf("count changes: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM file_index").Scan(&stats.FileIndex); err != nil {
		return nil, fmt.Errorf("count file index: %w", err)
	}

	return &stats, nil
}

// ComputeHash returns the hex SHA-256 of content.
func ComputeHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
