package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// AppConfig holds all configuration for the application
// The values are loaded from environment variables, optionally seeded from a .env file
type AppConfig struct {
	// Storage
	StoreBackend string
	SQLitePath   string
	PostgresDSN  string

	// Listeners
	GRPCAddr string
	HTTPAddr string

	LogLevel string
}

// Load reads a .env file (current directory, then parent) and then the environment
// A missing .env file is not an error: the OS environment is used as is
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		if errParent := godotenv.Load("../.env"); errParent != nil && !os.IsNotExist(errParent) {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errParent)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		SQLitePath:   getEnv("SQLITE_PATH", "coinflow.db"),
		PostgresDSN:  postgresDSN(),
		GRPCAddr:     getEnv("GRPC_ADDR", "127.0.0.1:8080"),
		HTTPAddr:     getEnv("HTTP_ADDR", "127.0.0.1:8081"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.StoreBackend {
	case BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: must be sqlite, postgres or memory", cfg.StoreBackend)
	}

	return cfg, nil
}

// postgresDSN returns DB_CONN_STR, or builds it from the individual DB_* variables
func postgresDSN() string {
	if dsn := os.Getenv("DB_CONN_STR"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "coinflow"),
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
