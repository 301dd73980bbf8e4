package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run does not exist
var ErrNotFound = errors.New("run not found")

// Store keeps the history of verification runs
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer; avoids SQLITE_BUSY between the watch loop and ad-hoc runs
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		url TEXT NOT NULL,
		outcome TEXT NOT NULL,
		failure_kind TEXT,
		error TEXT,
		screenshot_path TEXT,
		screenshot_bytes INTEGER,
		dialog_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS run_dialogs (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records a run and the messages of the dialogs it saw
func (s *Store) SaveRun(r *Run, dialogs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, finished_at, url, outcome, failure_kind,
			error, screenshot_path, screenshot_bytes, dialog_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			outcome = excluded.outcome,
			failure_kind = excluded.failure_kind,
			error = excluded.error,
			screenshot_bytes = excluded.screenshot_bytes,
			dialog_count = excluded.dialog_count
	`, r.ID, r.StartedAt.UTC(), r.FinishedAt.UTC(), r.URL, r.Outcome, r.FailureKind,
		r.Error, r.ScreenshotPath, r.ScreenshotBytes, len(dialogs))
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM run_dialogs WHERE run_id = ?`, r.ID); err != nil {
		return err
	}
	for i, msg := range dialogs {
		_, err := tx.Exec(`INSERT INTO run_dialogs (run_id, seq, message) VALUES (?, ?, ?)`, r.ID, i, msg)
		if err != nil {
			return fmt.Errorf("failed to save dialog: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.DialogCount = len(dialogs)
	return nil
}

const runColumns = `id, started_at, finished_at, url, outcome, failure_kind,
	error, screenshot_path, screenshot_bytes, dialog_count`

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// LastRun returns the most recent run
func (s *Store) LastRun() (*Run, error) {
	row := s.db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// Dialogs returns the dialog messages of a run in the order they appeared
func (s *Store) Dialogs(runID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT message FROM run_dialogs WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var kind, errText, shotPath sql.NullString
	var shotBytes sql.NullInt64

	err := sc.Scan(
		&r.ID, &r.StartedAt, &r.FinishedAt, &r.URL, &r.Outcome, &kind,
		&errText, &shotPath, &shotBytes, &r.DialogCount,
	)
	if err != nil {
		return nil, err
	}

	r.FailureKind = kind.String
	r.Error = errText.String
	r.ScreenshotPath = shotPath.String
	r.ScreenshotBytes = int(shotBytes.Int64)
	return &r, nil
}
