//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/logger"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=coinflow sslmode=disable"
	}

	db, err := NewDB(connStr)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	require.NoError(t, db.Migrate(logger.Discard()))

	_, err = db.Exec(`DELETE FROM kv_entries WHERE key LIKE 'test-%'`)
	require.NoError(t, err)
	return db
}

func TestKVStore_MissingKey(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	_, err := NewKVStore(db).Get(context.Background(), "test-missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKVStore_Upsert(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	store := NewKVStore(db)

	require.NoError(t, store.Set(ctx, "test-trades", []byte(`[{"id":"trade-1","brlValue":1000}]`)))
	require.NoError(t, store.Set(ctx, "test-trades", []byte(`[{"id":"trade-2","brlValue":500.5}]`)))

	got, err := store.Get(ctx, "test-trades")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"trade-2","brlValue":500.5}]`, string(got))
}

func TestKVStore_RejectsInvalidJSON(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	err := NewKVStore(db).Set(context.Background(), "test-bad", []byte(`not json`))
	assert.Error(t, err)
}
