package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists Run records to a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		total_files INTEGER NOT NULL,
		processed_files INTEGER NOT NULL,
		failed_files INTEGER NOT NULL,
		total_errors INTEGER NOT NULL,
		total_warnings INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("history: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one completed run.
func (s *Store) Record(run Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (target, timestamp, duration_ms, total_files, processed_files, failed_files, total_errors, total_warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Target, run.Timestamp, run.DurationMs, run.TotalFiles, run.ProcessedFiles, run.FailedFiles, run.TotalErrors, run.TotalWarnings)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// Recent returns the limit most recent runs, newest first. A limit
// <= 0 returns every run.
func (s *Store) Recent(limit int) ([]Run, error) {
	query := `
		SELECT id, target, timestamp, duration_ms, total_files, processed_files, failed_files, total_errors, total_warnings
		FROM runs
		ORDER BY timestamp DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts time.Time
		if err := rows.Scan(&r.ID, &r.Target, &ts, &r.DurationMs, &r.TotalFiles, &r.ProcessedFiles, &r.FailedFiles, &r.TotalErrors, &r.TotalWarnings); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.Timestamp = ts
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}
