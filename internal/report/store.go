// Package report persists validation runs to SQLite so results can be
// compared across runs of the tool.
package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the run history.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id              INTEGER PRIMARY KEY,
  base_path       TEXT NOT NULL,
  started_at      TIMESTAMP,
  finished_at     TIMESTAMP,
  files_scanned   INTEGER DEFAULT 0,
  files_skipped   INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS diagnostics (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  call            TEXT NOT NULL,
  argument        TEXT NOT NULL,
  file            TEXT NOT NULL,
  line            INTEGER,
  offset          INTEGER
);

CREATE TABLE IF NOT EXISTS unused_entities (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  category        TEXT NOT NULL,
  name            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS missing_tech (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  category        TEXT NOT NULL,
  name            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);
CREATE INDEX IF NOT EXISTS idx_unused_run ON unused_entities(run_id);
CREATE INDEX IF NOT EXISTS idx_missing_tech_run ON missing_tech(run_id);
`

// Run is one persisted validation run.
type Run struct {
	ID           int64
	BasePath     string
	StartedAt    time.Time
	FinishedAt   time.Time
	FilesScanned int
	FilesSkipped int
}

// Diagnostic is one persisted unresolved reference.
type Diagnostic struct {
	ID       int64
	RunID    int64
	Call     string
	Argument string
	File     string
	Line     int
	Offset   int
}

// InsertRun records a completed run and returns its ID.
func (s *Store) InsertRun(r *Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (base_path, started_at, finished_at, files_scanned, files_skipped)
		 VALUES (?, ?, ?, ?, ?)`,
		r.BasePath, r.StartedAt, r.FinishedAt, r.FilesScanned, r.FilesSkipped,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// InsertDiagnostic records one unresolved reference for a run.
func (s *Store) InsertDiagnostic(d *Diagnostic) error {
	res, err := s.db.Exec(
		`INSERT INTO diagnostics (run_id, call, argument, file, line, offset)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.RunID, d.Call, d.Argument, d.File, d.Line, d.Offset,
	)
	if err != nil {
		return fmt.Errorf("insert diagnostic: %w", err)
	}
	d.ID, _ = res.LastInsertId()
	return nil
}

// InsertUnused records one unused entity for a run.
func (s *Store) InsertUnused(runID int64, category, name string) error {
	_, err := s.db.Exec(
		`INSERT INTO unused_entities (run_id, category, name) VALUES (?, ?, ?)`,
		runID, category, name,
	)
	if err != nil {
		return fmt.Errorf("insert unused: %w", err)
	}
	return nil
}

// InsertMissingTech records one entity absent from every tech group.
func (s *Store) InsertMissingTech(runID int64, category, name string) error {
	_, err := s.db.Exec(
		`INSERT INTO missing_tech (run_id, category, name) VALUES (?, ?, ?)`,
		runID, category, name,
	)
	if err != nil {
		return fmt.Errorf("insert missing tech: %w", err)
	}
	return nil
}

// LatestRun returns the most recently inserted run, or nil when the store is
// empty.
func (s *Store) LatestRun() (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, base_path, started_at, finished_at, files_scanned, files_skipped
		 FROM runs ORDER BY id DESC LIMIT 1`,
	)
	var r Run
	err := row.Scan(&r.ID, &r.BasePath, &r.StartedAt, &r.FinishedAt, &r.FilesScanned, &r.FilesSkipped)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return &r, nil
}

// DiagnosticsByRun returns a run's diagnostics in insertion order.
func (s *Store) DiagnosticsByRun(runID int64) ([]Diagnostic, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, call, argument, file, line, offset
		 FROM diagnostics WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("diagnostics by run: %w", err)
	}
	defer rows.Close()
	var out []Diagnostic
	for rows.Next() {
		var d Diagnostic
		if err := rows.Scan(&d.ID, &d.RunID, &d.Call, &d.Argument, &d.File, &d.Line, &d.Offset); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UnusedByRun returns a run's unused entity names for one category, sorted.
func (s *Store) UnusedByRun(runID int64, category string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT name FROM unused_entities WHERE run_id = ? AND category = ? ORDER BY name`,
		runID, category,
	)
	if err != nil {
		return nil, fmt.Errorf("unused by run: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
