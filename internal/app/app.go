package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/simaogato/coinflow-backend/internal/adapter/repository/collection"
	"github.com/simaogato/coinflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/coinflow-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/coinflow-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/coinflow-backend/internal/config"
	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/coinflow-backend/internal/usecase/entry"
	"github.com/simaogato/coinflow-backend/internal/usecase/export"
	"github.com/simaogato/coinflow-backend/internal/usecase/seeder"
)

// App holds the repositories and services shared by the server and the CLI
type App struct {
	// Backend is the store actually in use, which differs from the configured one in ephemeral mode
	Backend   string
	Ephemeral bool

	BRLMovements   domain.BRLMovementRepository
	AssetTrades    domain.AssetTradeRepository
	AssetMovements domain.AssetMovementRepository

	EntryService     *entry.EntryService
	DashboardService *dashboard.DashboardService
	ExportService    *export.ExportService

	closer io.Closer
}

// New opens the configured store, loads the three collections and builds the services
// If the store cannot be opened the app runs on the in-memory store: it keeps working
// but nothing is persisted, and a warning is logged.
func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) *App {
	kv, closer, err := openStore(cfg, logger)
	backend := cfg.StoreBackend
	ephemeral := backend == config.BackendMemory
	if err != nil {
		logger.Warn("Store unavailable, running in ephemeral mode: changes will not be saved",
			"backend", cfg.StoreBackend, "error", err)
		mem := memory.NewKVStore()
		kv, closer = mem, mem
		backend = config.BackendMemory
		ephemeral = true
	}

	return newApp(ctx, kv, closer, backend, ephemeral, logger)
}

// NewWithStore builds the app on an already opened store
func NewWithStore(ctx context.Context, kv domain.KeyValueStore, logger *slog.Logger) *App {
	return newApp(ctx, kv, nil, "custom", false, logger)
}

func newApp(ctx context.Context, kv domain.KeyValueStore, closer io.Closer, backend string, ephemeral bool, logger *slog.Logger) *App {
	// A failed seed is not fatal: the collections still open empty and the first write creates the key
	if created, err := seeder.NewStoreSeeder(kv).Seed(ctx); err != nil {
		logger.Error("Failed to seed collections", "error", err)
	} else if len(created) > 0 {
		logger.Info("Seeded empty collections", "keys", created)
	}

	brl := collection.Open[domain.BRLMovement](ctx, kv, domain.KeyBRLMovements, domain.PrefixBRLMovement, logger)
	trades := collection.Open[domain.AssetTrade](ctx, kv, domain.KeyAssetTrades, domain.PrefixAssetTrade, logger)
	assets := collection.Open[domain.AssetMovement](ctx, kv, domain.KeyAssetMovements, domain.PrefixAssetMovement, logger)

	return &App{
		Backend:          backend,
		Ephemeral:        ephemeral,
		BRLMovements:     brl,
		AssetTrades:      trades,
		AssetMovements:   assets,
		EntryService:     entry.NewEntryService(brl, trades, assets),
		DashboardService: dashboard.NewDashboardService(brl, trades, assets),
		ExportService:    export.NewExportService(brl, trades, assets),
		closer:           closer,
	}
}

// Close releases the underlying store
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func openStore(cfg *config.AppConfig, logger *slog.Logger) (domain.KeyValueStore, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := sqlite.NewDB(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using SQLite store", "path", cfg.SQLitePath)
		return sqlite.NewKVStore(db), db, nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Using PostgreSQL store")
		return postgres.NewKVStore(db), db, nil

	case config.BackendMemory:
		logger.Info("Using in-memory store: changes will not be saved")
		mem := memory.NewKVStore()
		return mem, mem, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
