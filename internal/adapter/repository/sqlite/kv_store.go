package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/coinflow-backend/internal/domain"
)

// kvStore implements domain.KeyValueStore on the kv_entries table
type kvStore struct {
	db *DB
}

// NewKVStore creates a new key-value store
func NewKVStore(db *DB) domain.KeyValueStore {
	return &kvStore{db: db}
}

// Get retrieves the value stored under key
func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_entries WHERE key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sqlite: %s: %w", key, domain.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return []byte(value), nil
}

// Set stores value under key, replacing the previous value
func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}
