// Package session persists the single local session marker. Presence
// of the marker means "logged in"; logout clears it wholesale. No other
// durable state is held on the client.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS session_marker (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	username   TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// Store is a sqlite-backed session marker store.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the session database location under the user
// config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "daybook", "session.db")
}

// Open creates or opens the session database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	// journal_mode=WAL and busy_timeout keep concurrent CLI invocations
	// from failing on the lock.
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping session database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save installs the session marker, replacing any previous one.
func (s *Store) Save(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_marker (id, username, created_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET username = excluded.username, created_at = excluded.created_at`,
		username, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save session marker: %w", err)
	}
	return nil
}

// Current returns the logged-in username, or ok=false when no marker
// is present.
func (s *Store) Current(ctx context.Context) (username string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT username FROM session_marker WHERE id = 1`)
	if err := row.Scan(&username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read session marker: %w", err)
	}
	return username, true, nil
}

// Clear removes the session marker. Clearing an absent marker is a
// no-op.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_marker`); err != nil {
		return fmt.Errorf("failed to clear session marker: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
