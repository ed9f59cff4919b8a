package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/logger"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()
	db, err := NewDB(path, logger.Discard())
	require.NoError(t, err)
	return db
}

func TestKVStore_MissingKey(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "coinflow.db"))
	defer db.Close()

	_, err := NewKVStore(db).Get(context.Background(), domain.KeyAssetMovements)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKVStore_Upsert(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "coinflow.db"))
	defer db.Close()
	store := NewKVStore(db)

	require.NoError(t, store.Set(ctx, domain.KeyBRLMovements, []byte(`[{"id":"brl-1"}]`)))
	require.NoError(t, store.Set(ctx, domain.KeyBRLMovements, []byte(`[{"id":"brl-2"}]`)))

	got, err := store.Get(ctx, domain.KeyBRLMovements)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"brl-2"}]`, string(got))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv_entries`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestKVStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "coinflow.db")

	db := openTestDB(t, path)
	require.NoError(t, NewKVStore(db).Set(ctx, domain.KeyAssetTrades, []byte(`[]`)))
	require.NoError(t, db.Close())

	// Reopening re-runs migrations, which must be a no-op
	db = openTestDB(t, path)
	defer db.Close()

	got, err := NewKVStore(db).Get(ctx, domain.KeyAssetTrades)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}
