package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetState reads a single system state value. Returns ErrNotFound when
// the key has never been set.
func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM system_state WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("state %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", &PersistenceError{Op: fmt.Sprintf("reading state %s", key), Err: err}
	}
	return value, nil
}

// SetState writes a single system state value, replacing any previous
// one. State persists across CLI invocations; callers read it out and
// pass the value into operations explicitly rather than treating the
// store as a hidden global.
func (s *SQLiteStore) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("writing state %s", key), Err: err}
	}
	return nil
}

// ClearState removes a system state value if present.
func (s *SQLiteStore) ClearState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM system_state WHERE key = ?", key)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("clearing state %s", key), Err: err}
	}
	return nil
}
