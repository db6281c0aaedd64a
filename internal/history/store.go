// Package history keeps a SQLite log of recordings made by the ascentobs
// command.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recording.
type Entry struct {
	// ID is a ULID assigned by the caller.
	ID         string
	Identifier int
	OutputFile string
	Encoder    string
	GamePID    int
	Source     string
	StartedAt  time.Time
	StoppedAt  time.Time
	// DurationMS is the duration reported by the worker.
	DurationMS int64
	StopCode   int
	// Error is set when the recording failed to start or stop cleanly.
	Error string
}

// Store owns the history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path. Call Init before use.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the underlying SQLite file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Init applies pragmas and the schema.
func (s *Store) Init(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("nil store")
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, stmt := range pragmas {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS recordings (
			id TEXT PRIMARY KEY,
			identifier INTEGER NOT NULL,
			output_file TEXT NOT NULL,
			encoder TEXT NOT NULL DEFAULT '',
			game_pid INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			stopped_at INTEGER,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			stop_code INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recordings_started ON recordings(started_at);`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

// Record inserts e, or replaces the entry with the same ID.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return errors.New("history entry: id is required")
	}

	if e.StartedAt.IsZero() {
		return errors.New("history entry: start time is required")
	}

	var stopped sql.NullInt64
	if !e.StoppedAt.IsZero() {
		stopped = sql.NullInt64{Int64: e.StoppedAt.UnixMilli(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO recordings
		(id, identifier, output_file, encoder, game_pid, source, started_at, stopped_at, duration_ms, stop_code, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Identifier, e.OutputFile, e.Encoder, e.GamePID, e.Source,
		e.StartedAt.UnixMilli(), stopped, e.DurationMS, e.StopCode, e.Error,
	)
	if err != nil {
		return fmt.Errorf("record history entry %s: %w", e.ID, err)
	}

	return nil
}

const selectColumns = `SELECT id, identifier, output_file, encoder, game_pid, source,
	started_at, stopped_at, duration_ms, stop_code, error FROM recordings`

// Get returns the entry with id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get history entry %s: %w", id, err)
	}

	return e, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := selectColumns + ` ORDER BY started_at DESC, id DESC`
	args := []any{}

	if limit > 0 {
		query += ` LIMIT ?`

		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}

		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e       Entry
		started int64
		stopped sql.NullInt64
	)

	if err := row.Scan(&e.ID, &e.Identifier, &e.OutputFile, &e.Encoder, &e.GamePID, &e.Source,
		&started, &stopped, &e.DurationMS, &e.StopCode, &e.Error); err != nil {
		return nil, err
	}

	e.StartedAt = time.UnixMilli(started)
	if stopped.Valid {
		e.StoppedAt = time.UnixMilli(stopped.Int64)
	}

	return &e, nil
}
