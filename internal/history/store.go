// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     history
// Description: SQLite store for interactive input lines
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
	mdwlog "github.com/msto63/mlox/foundation/core/log"
)

// Entry is one interactive input line and what it produced
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	SessionID string    `json:"session_id" yaml:"session_id"`
	Input     string    `json:"input" yaml:"input"`
	Output    string    `json:"output" yaml:"output"`
	ErrorKind string    `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Failed reports whether the line produced an error
func (e *Entry) Failed() bool {
	return e.ErrorKind != ""
}

// Config holds configuration for the SQLite store
type Config struct {
	// Path of the database file; ":memory:" keeps everything in memory
	Path string

	// Limit caps the number of stored entries, 0 keeps all
	Limit int

	Logger *mdwlog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path:  "./data/history.db",
		Limit: 500,
	}
}

// Store persists entries in SQLite
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	limit  int
	logger *mdwlog.Logger
}

// Open creates or opens a history database
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	logger = logger.WithField("component", "history")

	dsn := ":memory:"
	if cfg.Path != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, mdwerror.Wrap(err, "failed to create history directory").
				WithCode(mdwerror.CodeIOError).
				WithOperation("history.Open").
				WithDetail("path", cfg.Path)
		}
		// Open database with WAL mode
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storeError(err, "failed to open database", "history.Open")
	}
	if cfg.Path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, limit: cfg.Limit, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storeError(err, "failed to initialize schema", "history.Open")
	}

	logger.Debug("history store opened", mdwlog.Fields{"path": cfg.Path, "limit": cfg.Limit})
	return store, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		error_kind TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores an entry, filling ID and CreatedAt when empty, and trims
// the table to the configured limit
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, session_id, input, output, error_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SessionID, entry.Input, entry.Output, entry.ErrorKind, entry.CreatedAt)
	if err != nil {
		return storeError(err, "failed to insert history entry", "history.Record")
	}

	if s.limit > 0 {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM history WHERE seq NOT IN (
				SELECT seq FROM history ORDER BY seq DESC LIMIT ?
			)
		`, s.limit)
		if err != nil {
			return storeError(err, "failed to trim history", "history.Record")
		}
	}

	return nil
}

// Recent returns up to limit entries, oldest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, input, output, error_kind, created_at FROM (
			SELECT * FROM history ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, storeError(err, "failed to query history", "history.Recent")
	}
	defer rows.Close()

	return scanEntries(rows)
}

// BySession returns all entries of one session, oldest first
func (s *Store) BySession(ctx context.Context, sessionID string) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, input, output, error_kind, created_at
		FROM history WHERE session_id = ? ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, storeError(err, "failed to query session history", "history.BySession")
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Inputs returns the input lines of the most recent entries, oldest first
func (s *Store) Inputs(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	inputs := make([]string, 0, len(entries))
	for _, e := range entries {
		inputs = append(inputs, e.Input)
	}
	return inputs, nil
}

// Clear deletes all entries and returns how many were removed
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, storeError(err, "failed to clear history", "history.Clear")
	}
	deleted, _ := result.RowsAffected()

	s.logger.Info("history cleared", mdwlog.Fields{"deleted": deleted})
	return deleted, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Input, &e.Output, &e.ErrorKind, &e.CreatedAt); err != nil {
			return nil, storeError(err, "failed to scan history entry", "history.scan")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to read history rows", "history.scan")
	}
	return entries, nil
}

func storeError(err error, message, operation string) error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(operation)
}

// String renders an entry on one line for listings
func (e *Entry) String() string {
	status := "ok"
	if e.Failed() {
		status = e.ErrorKind
	}
	return fmt.Sprintf("%s  %-7s  %s", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), status, e.Input)
}
