package memory

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

// KVStore is a process-local domain.KeyValueStore
// Nothing survives a restart; used for tests, demos and as the fallback when the configured backend is unavailable
type KVStore struct {
	cache *cache.Cache
}

// NewKVStore creates an empty in-memory store whose entries never expire
func NewKVStore() *KVStore {
	return &KVStore{cache: cache.New(cache.NoExpiration, 0)}
}

// Get returns a copy of the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, fmt.Errorf("memory: %s: %w", key, domain.ErrKeyNotFound)
	}
	raw := v.([]byte)
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// Set stores a copy of value under key
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	raw := make([]byte, len(value))
	copy(raw, value)
	s.cache.Set(key, raw, cache.NoExpiration)
	return nil
}

// Close is a no-op, present so every backend can be released the same way
func (s *KVStore) Close() error {
	return nil
}
