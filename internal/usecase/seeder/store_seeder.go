package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/coinflow-backend/internal/domain"
)

// CollectionKeys are the keys every store must hold
var CollectionKeys = []string{
	domain.KeyBRLMovements,
	domain.KeyAssetTrades,
	domain.KeyAssetMovements,
}

// StoreSeeder handles seeding of the empty record collections
type StoreSeeder struct {
	kv domain.KeyValueStore
}

// NewStoreSeeder creates a new StoreSeeder instance
func NewStoreSeeder(kv domain.KeyValueStore) *StoreSeeder {
	return &StoreSeeder{
		kv: kv,
	}
}

// Seed ensures every collection key exists in the store
// A missing key is written as an empty JSON array. Existing values, even unreadable
// ones, are left alone. Returns the keys that were created.
func (s *StoreSeeder) Seed(ctx context.Context) ([]string, error) {
	var created []string

	for _, key := range CollectionKeys {
		_, err := s.kv.Get(ctx, key)
		if err == nil {
			// Collection exists, no action needed
			continue
		}
		if !errors.Is(err, domain.ErrKeyNotFound) {
			return created, fmt.Errorf("failed to check %s: %w", key, err)
		}

		if err := s.kv.Set(ctx, key, []byte("[]")); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", key, err)
		}
		created = append(created, key)
	}

	return created, nil
}
