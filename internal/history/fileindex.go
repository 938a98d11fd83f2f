package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FileEntry holds the last written state of a file.
type FileEntry struct {
	FilePath    string
	WrittenHash string
	WrittenAt   time.Time
}

// SetFileWritten records that jbgen wrote content with the given hash to path.
func (s *Store) SetFileWritten(path, hash string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO file_index (file_path, written_hash, written_at)
		VALUES (?, ?, ?)`,
		path, hash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set file written %s: %w", path, err)
	}
	return nil
}

// GetFileEntry retrieves the index entry for path.
// Returns sql.ErrNoRows if jbgen never wrote the file.
func (s *Store) GetFileEntry(path string) (*FileEntry, error) {
	var entry FileEntry
	var writtenAt string
	err := s.db.QueryRow(`
		SELECT file_path, written_hash, written_at FROM file_index WHERE file_path = ?`,
		path).Scan(&entry.FilePath, &entry.WrittenHash, &writtenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get file entry %s: %w", path, err)
	}
	entry.WrittenAt, _ = time.Parse(time.RFC3339, writtenAt)
	return &entry, nil
}

// IsUnchanged reports whether path still holds exactly what jbgen last
// wrote to it. Files jbgen never wrote are reported as changed.
func (s *Store) IsUnchanged(path, currentHash string) (bool, error) {
	entry, err := s.GetFileEntry(path)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entry.WrittenHash == currentHash, nil
}

// DeleteFileEntry removes a file from the index.
func (s *Store) DeleteFileEntry(path string) error {
	_, err := s.db.Exec("DELETE FROM file_index WHERE file_path = ?", path)
	if err != nil {
		return fmt.Errorf("delete file entry %s: %w", path, err)
	}
	return nil
}
