package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SyncRun records the outcome of one sync procedure. The history is
// observational only: resumption is always re-derived from the files
// already materialized in the vault, never from these rows.
type SyncRun struct {
	ID         string
	Kind       string // "lifelogs" or "chats"
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Status     string // "ok" or "error"
	Error      string
}

// History stores sync run outcomes in a local SQLite database
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the sync history database
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		processed INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the underlying database
func (h *History) Close() error {
	return h.db.Close()
}

// Record inserts a completed run. A missing ID is filled in.
func (h *History) Record(run *SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	query := `
	INSERT INTO sync_runs (id, kind, started_at, finished_at, processed, status, error)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := h.db.Exec(query,
		run.ID, run.Kind,
		run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.Processed, run.Status, run.Error)
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first
func (h *History) Recent(limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, kind, started_at, finished_at, processed, status, COALESCE(error, '')
	FROM sync_runs ORDER BY started_at DESC LIMIT ?`
	rows, err := h.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var run SyncRun
		var started, finished int64
		if err := rows.Scan(&run.ID, &run.Kind, &started, &finished, &run.Processed, &run.Status, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		run.StartedAt = time.UnixMilli(started)
		run.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return runs, nil
}
