package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/myflix/internal/shared"
)

// SQLiteSessionStore keeps the session in the session table.
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore wraps a migrated database.
func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Get returns the value stored under key, or "" if there is none.
func (s *SQLiteSessionStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM session WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", shared.ErrSessionStore, key, err)
	}
	return value, nil
}

// Set inserts or replaces key.
func (s *SQLiteSessionStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrSessionStore, key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteSessionStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE key = ?", key); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrSessionStore, key, err)
	}
	return nil
}

// Clear removes every key.
func (s *SQLiteSessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("%w: failed to clear session: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Keys lists the stored keys in ascending order.
func (s *SQLiteSessionStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM session ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %v", shared.ErrSessionStore, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: failed to scan key: %v", shared.ErrSessionStore, err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
