package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

// Collection implements domain.RecordRepository[T] on top of a domain.KeyValueStore
// The whole collection is kept in memory and written back as one JSON array on every mutation
type Collection[T domain.Record[T]] struct {
	mu      sync.Mutex
	kv      domain.KeyValueStore
	key     string
	prefix  string
	logger  *slog.Logger
	records []T
}

// Open loads the collection stored under key
// A missing key starts an empty collection. A read failure or corrupt value also starts
// an empty collection; the error is logged and the stored value is left untouched until
// the next successful write.
func Open[T domain.Record[T]](ctx context.Context, kv domain.KeyValueStore, key, prefix string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collection[T]{
		kv:      kv,
		key:     key,
		prefix:  prefix,
		logger:  logger.With("collection", key),
		records: []T{},
	}

	raw, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		return c
	case err != nil:
		c.logger.Error("failed to read collection, starting empty", "error", err)
		return c
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.Error("failed to decode collection, starting empty", "error", err)
		return c
	}
	if records != nil {
		sortRecords(records)
		c.records = records
	}
	c.logger.Debug("collection loaded", "records", len(c.records))
	return c
}

// Add assigns a new id to record and stores it
// Logic:
// 1. Generate prefix + UUIDv7 (time ordered, so later inserts sort first on the same date)
// 2. Build the next state with the record added and re-sorted
// 3. Persist; on failure the in-memory state is unchanged
func (c *Collection[T]) Add(ctx context.Context, record T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to generate record id: %w", err)
	}
	record = record.WithID(c.prefix + id.String())

	next := make([]T, 0, len(c.records)+1)
	next = append(next, record)
	next = append(next, c.records...)

	if err := c.commit(ctx, next); err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

// Update replaces the record with the same id wholesale
func (c *Collection[T]) Update(ctx context.Context, record T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(record.RecordID())
	if idx < 0 {
		return fmt.Errorf("failed to update %s: %w", record.RecordID(), domain.ErrRecordNotFound)
	}

	next := make([]T, len(c.records))
	copy(next, c.records)
	next[idx] = record

	return c.commit(ctx, next)
}

// Delete removes the record with the given id
// Unknown ids leave the collection and the store untouched
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := make([]T, 0, len(c.records)-1)
	next = append(next, c.records[:idx]...)
	next = append(next, c.records[idx+1:]...)

	return c.commit(ctx, next)
}

// List returns a copy of the collection, most recent date first
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, len(c.records))
	copy(out, c.records)
	return out, nil
}

func (c *Collection[T]) indexOf(id string) int {
	for i, r := range c.records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

// commit sorts next, writes it and swaps it in only once the write succeeded
func (c *Collection[T]) commit(ctx context.Context, next []T) error {
	sortRecords(next)

	raw, err := json.Marshal(next)
	if err != nil {
		c.logger.Error("failed to encode collection", "error", err)
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}

	if err := c.kv.Set(ctx, c.key, raw); err != nil {
		c.logger.Error("failed to write collection, keeping previous state", "error", err)
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}

	c.records = next
	return nil
}

// sortRecords orders by date descending, then id descending
func sortRecords[T domain.Record[T]](records []T) {
	sort.SliceStable(records, func(i, j int) bool {
		if cmp := records[i].RecordDate().Compare(records[j].RecordDate()); cmp != 0 {
			return cmp > 0
		}
		return records[i].RecordID() > records[j].RecordID()
	})
}
