package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS memories (
	id         TEXT PRIMARY KEY,
	topic      TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS memories_topic ON memories(topic);`

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: not found")

// Preference is one persisted key/value pair.
type Preference struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Memory is one persisted session-memory entry.
type Memory struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists preferences and session memories in a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at the given path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetPreference stores or replaces the value for a key.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store: set preference: %w", err)
	}
	return nil
}

// GetPreference returns the stored value for a key, or ErrNotFound.
func (s *Store) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get preference: %w", err)
	}
	return value, nil
}

// DeletePreference removes a key. Deleting an absent key is not an error.
func (s *Store) DeletePreference(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete preference: %w", err)
	}
	return nil
}

// ListPreferences returns all preferences in key order.
func (s *Store) ListPreferences(ctx context.Context) ([]Preference, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, updated_at FROM preferences ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		var at string
		if err := rows.Scan(&p.Key, &p.Value, &at); err != nil {
			return nil, fmt.Errorf("store: scan preference: %w", err)
		}
		p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, at)
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// Remember persists a memory under a topic and returns its id.
func (s *Store) Remember(ctx context.Context, topic, content string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO memories (id, topic, content, created_at) VALUES (?, ?, ?, ?)`,
		id, topic, content, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("store: remember: %w", err)
	}
	return id, nil
}

// Recall returns all memories for a topic, oldest first.
func (s *Store) Recall(ctx context.Context, topic string) ([]Memory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, content, created_at FROM memories WHERE topic = ? ORDER BY created_at ASC, id ASC`, topic)
	if err != nil {
		return nil, fmt.Errorf("store: recall: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// Forget removes every memory under a topic and reports how many were
// deleted.
func (s *Store) Forget(ctx context.Context, topic string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE topic = ?`, topic)
	if err != nil {
		return 0, fmt.Errorf("store: forget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: forget: %w", err)
	}
	return n, nil
}

// ListMemories returns every memory ordered by topic, then age.
func (s *Store) ListMemories(ctx context.Context) ([]Memory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, content, created_at FROM memories ORDER BY topic ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list memories: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

func scanMemories(rows *sql.Rows) ([]Memory, error) {
	var memories []Memory
	for rows.Next() {
		var m Memory
		var at string
		if err := rows.Scan(&m.ID, &m.Topic, &m.Content, &at); err != nil {
			return nil, fmt.Errorf("store: scan memory: %w", err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, at)
		memories = append(memories, m)
	}
	return memories, rows.Err()
}
