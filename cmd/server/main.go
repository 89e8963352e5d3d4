package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/fintrack/internal/config"
	"github.com/mmynk/fintrack/internal/server"
	"github.com/mmynk/fintrack/internal/storage/sqlite"
	"github.com/mmynk/fintrack/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	srv := server.New(cfg, store)

	// Shut down cleanly on SIGINT/SIGTERM.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("Shutting down")
		if err := srv.Shutdown(); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Listen(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
