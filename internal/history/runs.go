package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/beanwright/jbgen/internal/edit"
	"github.com/google/uuid"
)

// Run is one recorded invocation.
type Run struct {
	ID         string     `json:"id" yaml:"id"`
	Command    string     `json:"command" yaml:"command"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Total      int        `json:"total" yaml:"total"`
	Succeeded  int        `json:"succeeded" yaml:"succeeded"`
	Failed     int        `json:"failed" yaml:"failed"`
	Changed    int        `json:"changed" yaml:"changed"`
	UndoneAt   *time.Time `json:"undone_at,omitempty" yaml:"undone_at,omitempty"`
}

// Totals are the counters stored when a run finishes.
type Totals struct {
	Total     int
	Succeeded int
	Failed    int
	Changed   int
}

// FileChange is the snapshot of one file a run rewrote.
type FileChange struct {
	RunID      string
	FilePath   string
	Before     []byte
	BeforeHash string
	AfterHash  string
}

const timeLayout = time.RFC3339Nano

// BeginRun records the start of a run and returns it.
func (s *Store) BeginRun(command string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Command:   command,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(`INSERT INTO runs (id, command, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Command, run.StartedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun stores the final counters of a run.
func (s *Store) FinishRun(runID string, totals Totals) error {
	res, err := s.db.Exec(`
		UPDATE runs SET finished_at = ?, total = ?, succeeded = ?, failed = ?, changed = ?
		WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), totals.Total, totals.Succeeded, totals.Failed, totals.Changed, runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// WriteFile replaces path with after as part of run runID. The previous
// content is snapshotted first so the run can be undone, and the file
// index remembers what was written.
func (s *Store) WriteFile(runID, path string, before, after []byte) error {
	afterHash := ComputeHash(after)
	if before == nil {
		before = []byte{}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO file_changes (run_id, file_path, before_content, before_hash, after_hash)
		VALUES (?, ?, ?, ?, ?)`,
		runID, path, before, ComputeHash(before), afterHash)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("record change %s: %w", path, err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO file_index (file_path, written_hash, written_at)
		VALUES (?, ?, ?)`,
		path, afterHash, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("index %s: %w", path, err)
	}

	// The file is written inside the transaction so a failed write leaves
	// no record behind.
	if err := edit.WriteFileAtomic(path, after); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, command, started_at, finished_at, total, succeeded, failed, changed, undone_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return run, err
}

// LatestRun returns the most recent run that wrote files and has not been
// undone.
func (s *Store) LatestRun() (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, command, started_at, finished_at, total, succeeded, failed, changed, undone_at
		FROM runs
		WHERE undone_at IS NULL AND EXISTS (SELECT 1 FROM file_changes fc WHERE fc.run_id = runs.id)
		ORDER BY seq DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns up to limit runs, newest first. A limit of zero or
// less returns every run.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, command, started_at, finished_at, total, succeeded, failed, changed, undone_at
		FROM runs ORDER BY seq DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Changes returns the file snapshots recorded for a run, by path.
func (s *Store) Changes(runID string) ([]FileChange, error) {
	rows, err := s.db.Query(`
		SELECT run_id, file_path, before_content, before_hash, after_hash
		FROM file_changes WHERE run_id = ? ORDER BY file_path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	var changes []FileChange
	for rows.Next() {
		var c FileChange
		if err := rows.Scan(&c.RunID, &c.FilePath, &c.Before, &c.BeforeHash, &c.AfterHash); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return changes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var startedAt string
	var finishedAt, undoneAt sql.NullString
	err := row.Scan(&run.ID, &run.Command, &startedAt, &finishedAt,
		&run.Total, &run.Succeeded, &run.Failed, &run.Changed, &undoneAt)
	if err != nil {
		return nil, err
	}
	run.StartedAt, _ = time.Parse(timeLayout, startedAt)
	run.FinishedAt = parseNullTime(finishedAt)
	run.UndoneAt = parseNullTime(undoneAt)
	return &run, nil
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
