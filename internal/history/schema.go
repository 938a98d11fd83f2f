package history

// schemaSQL defines the SQLite schema for the history database.
// Tables:
//   - runs: one row per generate/batch invocation that wrote files
//   - file_changes: per-file snapshot taken before a run rewrote the file
//   - file_index: hash of the content jbgen last wrote to each file
const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    command TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    total INTEGER NOT NULL DEFAULT 0,
    succeeded INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    changed INTEGER NOT NULL DEFAULT 0,
    undone_at TEXT
);

CREATE TABLE IF NOT EXISTS file_changes (
    run_id TEXT NOT NULL REFERENCES runs(id),
    file_path TEXT NOT NULL,
    before_content BLOB NOT NULL,
    before_hash TEXT NOT NULL,
    after_hash TEXT NOT NULL,
    PRIMARY KEY (run_id, file_path)
);

CREATE TABLE IF NOT EXISTS file_index (
    file_path TEXT PRIMARY KEY,
    written_hash TEXT NOT NULL,
    written_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_file_changes_run ON file_changes(run_id);
`

// initSchema creates the database tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
