// cmd/api/main.go

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/maithilyrajpure/trend-decline-gen/internal/app"
	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/server"
)

func main() {
	// Load .env when present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel, cfg.Environment)
	slog.SetDefault(logger)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize services", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.Watcher != nil {
		if err := a.Watcher.Start(ctx); err != nil {
			logger.Error("failed to start watcher", "error", err)
			os.Exit(1)
		}
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, a.ServerDeps())

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server", "addr", cfg.Server.Addr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			shutdown <- syscall.SIGTERM
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if a.Watcher != nil {
		if err := a.Watcher.Stop(shutdownCtx); err != nil {
			logger.Error("watcher shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
