package domain

import (
	"context"
)

// RecordRepository defines the persistence operations shared by the three record collections
type RecordRepository[T any] interface {
	// Add assigns a new id to record, stores it and returns the stored copy
	Add(ctx context.Context, record T) (T, error)

	// Update replaces the record with the same id wholesale
	// Returns ErrRecordNotFound if no record has that id
	Update(ctx context.Context, record T) error

	// Delete removes the record with the given id; unknown ids are ignored
	Delete(ctx context.Context, id string) error

	// List returns the collection sorted by date, most recent first
	List(ctx context.Context) ([]T, error)
}

type (
	BRLMovementRepository   = RecordRepository[BRLMovement]
	AssetTradeRepository    = RecordRepository[AssetTrade]
	AssetMovementRepository = RecordRepository[AssetMovement]
)

// KeyValueStore defines the backing store holding one serialized collection per key
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error
}
