package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/lkoster/screenlens/internal/model/chat"
)

// sessionKey is the fixed well-known key the single session record lives
// under, matching the key the browser client historically used.
const sessionKey = "screenshot-analyzer-session"

// Store persists at most one session record. Save(nil) deletes the stored
// value; Load returns nil for an absent or unreadable record.
type Store interface {
	Save(ctx context.Context, s *chat.Session) error
	Load(ctx context.Context) (*chat.Session, error)
	Close() error
}

// SQLiteStore keeps the session record in a single-row key-value table.
// Writes are atomic replaces, last writer wins.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed bootstraps) the store at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save replaces the stored session. A nil session deletes the record, which
// is how the clear flow forgets everything.
func (s *SQLiteStore) Save(ctx context.Context, session *chat.Session) error {
	if session == nil {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, sessionKey); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}

	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO sessions (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionKey, string(value)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// Load returns the stored session, or nil when absent. A record that no
// longer deserializes (corrupted or schema-incompatible) is treated as
// absent and logged, never surfaced as an error.
func (s *SQLiteStore) Load(ctx context.Context) (*chat.Session, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM sessions WHERE key = ?`, sessionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session chat.Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		log.Printf("[session] failed to parse saved session, treating as absent: %v", err)
		return nil, nil
	}

	return &session, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// NoopStore is used when no storage facility is available (persistence
// disabled or the database path unusable). Both operations succeed without
// doing anything, so the rest of the app never needs to care.
type NoopStore struct{}

// NewNoopStore returns the no-op store.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (*NoopStore) Save(context.Context, *chat.Session) error { return nil }

func (*NoopStore) Load(context.Context) (*chat.Session, error) { return nil, nil }

func (*NoopStore) Close() error { return nil }
