package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/coinflow-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/coinflow-backend/internal/adapter/http"
	"github.com/simaogato/coinflow-backend/internal/app"
	"github.com/simaogato/coinflow-backend/internal/config"
	"github.com/simaogato/coinflow-backend/internal/logger"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	l := logger.Init(cfg.LogLevel)

	// 2. Store, collections and services
	ctx := context.Background()
	a := app.New(ctx, cfg, l)
	defer a.Close()

	// 3. gRPC server with request logging
	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(grpcadapter.LoggingInterceptor(l)),
	)
	grpcadapter.RegisterLedgerServiceServer(grpcServer, grpcadapter.NewServer(a.EntryService, a.DashboardService))

	// Lists the service for tools like grpcurl; payloads are google.protobuf.Struct
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		l.Error("Failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	go func() {
		l.Info("gRPC server listening", "addr", cfg.GRPCAddr, "backend", a.Backend, "ephemeral", a.Ephemeral)
		if err := grpcServer.Serve(lis); err != nil {
			l.Error("Failed to serve gRPC server", "error", err)
			os.Exit(1)
		}
	}()

	// 4. HTTP server for the dashboard and CSV downloads
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpadapter.NewHandler(a.DashboardService, a.ExportService, l).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		l.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Failed to serve HTTP server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(l, grpcServer, httpServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(l *slog.Logger, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	l.Info("Shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		l.Error("HTTP server shutdown failed", "error", err)
	}

	grpcServer.GracefulStop()
	l.Info("Servers stopped")
}
