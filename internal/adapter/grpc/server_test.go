package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/coinflow-backend/internal/adapter/repository/collection"
	"github.com/simaogato/coinflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/logger"
	"github.com/simaogato/coinflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/coinflow-backend/internal/usecase/entry"
)

func startServer(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	kv := memory.NewKVStore()
	l := logger.Discard()

	brl := collection.Open[domain.BRLMovement](ctx, kv, domain.KeyBRLMovements, domain.PrefixBRLMovement, l)
	trades := collection.Open[domain.AssetTrade](ctx, kv, domain.KeyAssetTrades, domain.PrefixAssetTrade, l)
	assets := collection.Open[domain.AssetMovement](ctx, kv, domain.KeyAssetMovements, domain.PrefixAssetMovement, l)

	dashboardService := dashboard.NewDashboardService(brl, trades, assets)
	dashboardService.Now = func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) }

	lis := bufconn.Listen(1024 * 1024)
	srv := grpclib.NewServer(grpclib.UnaryInterceptor(LoggingInterceptor(l)))
	RegisterLedgerServiceServer(srv, NewServer(entry.NewEntryService(brl, trades, assets), dashboardService))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func TestServer_TradeLifecycle(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	_, err := client.Call(ctx, "AddBRLMovement", map[string]any{"date": "2024-03-01", "brlValue": "5000"})
	require.NoError(t, err)

	trade, err := client.Call(ctx, "AddAssetTrade", map[string]any{
		"currency": "USDT", "date": "2024-03-02", "brlValue": "1000", "rate": 5,
	})
	require.NoError(t, err)

	fields := trade.GetFields()
	id := fields["id"].GetStringValue()
	assert.Regexp(t, `^trade-`, id)
	assert.Equal(t, "COMPRA", fields["type"].GetStringValue())
	assert.InDelta(t, 199.8, fields["netAmount"].GetNumberValue(), 1e-9)
	assert.InDelta(t, 1.0, fields["feeValue"].GetNumberValue(), 1e-9)

	dash, err := client.Call(ctx, "GetDashboard", map[string]any{"period": "month"})
	require.NoError(t, err)

	kpis := dash.GetFields()["kpis"].GetStructValue().GetFields()
	assert.InDelta(t, 5000, kpis["totalDeposited"].GetNumberValue(), 1e-9)
	assert.InDelta(t, 4000, kpis["brlBalance"].GetNumberValue(), 1e-9)
	assert.Equal(t, "2024-03-01", dash.GetFields()["from"].GetStringValue())

	assets := dash.GetFields()["assets"].GetListValue().GetValues()
	require.Len(t, assets, 1)
	assert.Equal(t, "USDT", assets[0].GetStructValue().GetFields()["currency"].GetStringValue())

	_, err = client.Call(ctx, "UpdateAssetTrade", map[string]any{
		"id": id, "currency": "USDT", "type": "VENTA", "date": "2024-03-02", "brlValue": "500", "rate": "5",
	})
	require.NoError(t, err)

	list, err := client.Call(ctx, "ListRecords", map[string]any{"kind": "trade"})
	require.NoError(t, err)
	records := list.GetFields()["records"].GetListValue().GetValues()
	require.Len(t, records, 1)
	assert.Equal(t, "VENTA", records[0].GetStructValue().GetFields()["type"].GetStringValue())

	require.NoError(t, client.Delete(ctx, "trade", id))

	list, err = client.Call(ctx, "ListRecords", map[string]any{"kind": "trade"})
	require.NoError(t, err)
	assert.Empty(t, list.GetFields()["records"].GetListValue().GetValues())
}

func TestServer_PreviewTrade(t *testing.T) {
	client := startServer(t)

	preview, err := client.Call(context.Background(), "PreviewTrade", map[string]any{"brlValue": "1000", "rate": "5"})
	require.NoError(t, err)
	assert.InDelta(t, 200, preview.GetFields()["amount"].GetNumberValue(), 1e-9)

	preview, err = client.Call(context.Background(), "PreviewTrade", map[string]any{"brlValue": "1000"})
	require.NoError(t, err)
	assert.Zero(t, preview.GetFields()["amount"].GetNumberValue())
}

func TestServer_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	tests := []struct {
		name   string
		method string
		fields map[string]any
		code   codes.Code
	}{
		{"missing date", "AddBRLMovement", map[string]any{"brlValue": "10"}, codes.InvalidArgument},
		{"missing rate", "AddAssetTrade", map[string]any{"currency": "BTC", "date": "2024-01-01", "brlValue": "10"}, codes.InvalidArgument},
		{"update without id", "UpdateBRLMovement", map[string]any{"date": "2024-01-01", "brlValue": "10"}, codes.InvalidArgument},
		{"update unknown id", "UpdateAssetMovement", map[string]any{"id": "asset-x", "currency": "BTC", "date": "2024-01-01", "amount": "1"}, codes.NotFound},
		{"bad period", "GetDashboard", map[string]any{"period": "week"}, codes.InvalidArgument},
		{"bad kind", "ListRecords", map[string]any{"kind": "stocks"}, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Call(ctx, tt.method, tt.fields)
			assert.Equal(t, tt.code, status.Code(err), "error: %v", err)
		})
	}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.Equal(t, codes.InvalidArgument, status.Code(mapError(domain.ErrValidation)))
	assert.Equal(t, codes.NotFound, status.Code(mapError(domain.ErrRecordNotFound)))
	assert.Equal(t, codes.NotFound, status.Code(mapError(domain.ErrNoData)))
	assert.Equal(t, codes.Internal, status.Code(mapError(assert.AnError)))
}
