package history

import (
	"fmt"
	"os"
	"time"

	"github.com/beanwright/jbgen/internal/edit"
)

// UndoResult lists what an undo did per file.
type UndoResult struct {
	RunID    string   `json:"run_id" yaml:"run_id"`
	Restored []string `json:"restored,omitempty" yaml:"restored,omitempty"`
	// Drifted files were edited after the run and are left alone.
	Drifted []string `json:"drifted,omitempty" yaml:"drifted,omitempty"`
	// Missing files no longer exist.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Undo restores the files a run rewrote. A file is restored only while its
// current content still hashes to what the run wrote; anything edited
// since is reported as drifted and kept.
func (s *Store) Undo(runID string) (*UndoResult, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if run.UndoneAt != nil {
		return nil, fmt.Errorf("%s: %w", runID, ErrAlreadyUndone)
	}

	changes, err := s.Changes(runID)
	if err != nil {
		return nil, err
	}

	result := &UndoResult{RunID: runID}
	for _, c := range changes {
		current, err := os.ReadFile(c.FilePath)
		if err != nil {
			if os.IsNotExist(err) {
				result.Missing = append(result.Missing, c.FilePath)
				continue
			}
			return result, fmt.Errorf("reading %s: %w", c.FilePath, err)
		}
		if ComputeHash(current) != c.AfterHash {
			result.Drifted = append(result.Drifted, c.FilePath)
			continue
		}

		if err := edit.WriteFileAtomic(c.FilePath, c.Before); err != nil {
			return result, err
		}
		if err := s.DeleteFileEntry(c.FilePath); err != nil {
			return result, err
		}
		result.Restored = append(result.Restored, c.FilePath)
	}

	_, err = s.db.Exec(`UPDATE runs SET undone_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), runID)
	if err != nil {
		return result, fmt.Errorf("mark run %s undone: %w", runID, err)
	}
	return result, nil
}
