package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/coinflow-backend/internal/domain"
)

// kvStore implements domain.KeyValueStore on the kv_entries table
// Values are stored as JSONB, so only valid JSON can be written
type kvStore struct {
	db *DB
}

// NewKVStore creates a new key-value store
func NewKVStore(db *DB) domain.KeyValueStore {
	return &kvStore{db: db}
}

// Get retrieves the value stored under key
func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value::text FROM kv_entries WHERE key = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("postgres: %s: %w", key, domain.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return []byte(value), nil
}

// Set stores value under key, replacing the previous value
func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}
