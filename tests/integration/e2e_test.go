//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/simaogato/coinflow-backend/internal/adapter/grpc"
	"github.com/simaogato/coinflow-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

var (
	db         *postgres.DB
	grpcClient *grpcadapter.Client
	grpcConn   *grpc.ClientConn
)

// TestMain connects to the database and to a running server started with STORE_BACKEND=postgres
func TestMain(m *testing.M) {
	// 1. Connect to Database
	var err error
	db, err = postgres.NewDB(getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	// 2. Connect to gRPC Server
	grpcConn, err = grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}
	defer grpcConn.Close()

	grpcClient = grpcadapter.NewClient(grpcConn)

	// Run tests
	code := m.Run()

	os.Exit(code)
}

// getDBConnectionString returns the database connection string from environment or defaults
func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=coinflow sslmode=disable"
}

// getGRPCAddress returns the gRPC server address from environment or defaults
func getGRPCAddress() string {
	addr := os.Getenv("GRPC_ADDRESS")
	if addr == "" {
		addr = "localhost:8080"
	}
	return addr
}

// storedTrade reads a trade straight from the kv_entries row of the trade collection
func storedTrade(ctx context.Context, t *testing.T, id string) (domain.AssetTrade, bool) {
	t.Helper()

	var raw string
	err := db.QueryRowContext(ctx, `SELECT value::text FROM kv_entries WHERE key = $1`, domain.KeyAssetTrades).Scan(&raw)
	require.NoError(t, err, "trade collection should be persisted")

	var trades []domain.AssetTrade
	require.NoError(t, json.Unmarshal([]byte(raw), &trades))
	for _, trade := range trades {
		if trade.ID == id {
			return trade, true
		}
	}
	return domain.AssetTrade{}, false
}

// TestEndToEndFlow tests the complete flow: Deposit -> Buy -> Dashboard -> Edit -> Delete
func TestEndToEndFlow(t *testing.T) {
	ctx := context.Background()

	// Baseline, since the database may hold records from earlier runs
	before, err := grpcClient.Call(ctx, "GetDashboard", map[string]any{"period": "all"})
	require.NoError(t, err)
	baseBalance := before.GetFields()["kpis"].GetStructValue().GetFields()["brlBalance"].GetNumberValue()

	// Step A: Deposit BRL
	deposit, err := grpcClient.Call(ctx, "AddBRLMovement", map[string]any{
		"type": "DEPOSITO", "date": "2024-01-10", "brlValue": "1000", "proof": "e2e",
	})
	require.NoError(t, err, "AddBRLMovement should succeed")
	depositID := deposit.GetFields()["id"].GetStringValue()
	assert.Regexp(t, `^brl-`, depositID)

	// Step B: Buy USDT with the full deposit
	trade, err := grpcClient.Call(ctx, "AddAssetTrade", map[string]any{
		"currency": "USDT", "type": "COMPRA", "date": "2024-01-15", "brlValue": "1000", "rate": "5",
	})
	require.NoError(t, err, "AddAssetTrade should succeed")
	tradeID := trade.GetFields()["id"].GetStringValue()

	// Step C: Verify the derived fields were persisted exactly
	stored, ok := storedTrade(ctx, t, tradeID)
	require.True(t, ok, "trade should be in the stored collection")
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(200)), "amount: %s", stored.Amount)
	assert.True(t, stored.NetAmount.Equal(decimal.RequireFromString("199.8")), "netAmount: %s", stored.NetAmount)
	assert.True(t, stored.FeeValue.Equal(decimal.NewFromInt(1)), "feeValue: %s", stored.FeeValue)

	// Step D: Dashboard reflects both records
	after, err := grpcClient.Call(ctx, "GetDashboard", map[string]any{"period": "all"})
	require.NoError(t, err)
	balance := after.GetFields()["kpis"].GetStructValue().GetFields()["brlBalance"].GetNumberValue()
	assert.InDelta(t, baseBalance, balance, 1e-6, "deposit and purchase should cancel out")

	// Step E: Edit the trade into a sale; derived fields are recomputed
	_, err = grpcClient.Call(ctx, "UpdateAssetTrade", map[string]any{
		"id": tradeID, "currency": "USDT", "type": "VENTA", "date": "2024-01-15", "brlValue": "500", "rate": "5",
	})
	require.NoError(t, err)
	stored, ok = storedTrade(ctx, t, tradeID)
	require.True(t, ok)
	assert.Equal(t, domain.TradeTypeSell, stored.Type)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(100)))

	// Step F: Delete both records; deleting again is a no-op
	require.NoError(t, grpcClient.Delete(ctx, "trade", tradeID))
	require.NoError(t, grpcClient.Delete(ctx, "brl", depositID))
	require.NoError(t, grpcClient.Delete(ctx, "brl", depositID))

	_, ok = storedTrade(ctx, t, tradeID)
	assert.False(t, ok, "trade should be gone from the stored collection")
}

// TestValidationErrors checks that invalid forms are rejected without touching the store
func TestValidationErrors(t *testing.T) {
	ctx := context.Background()

	_, err := grpcClient.Call(ctx, "AddAssetMovement", map[string]any{"currency": "BTC", "date": "2024-01-01"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = grpcClient.Call(ctx, "UpdateBRLMovement", map[string]any{"id": "brl-does-not-exist", "date": "2024-01-01", "brlValue": "1"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
