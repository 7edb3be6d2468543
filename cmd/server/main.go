// Package main is the entry point for the taskora server.
//
// main stays minimal — read configuration, create the logger, start the
// application. All actual logic lives in internal/ packages.
package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/sakif/taskora/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := server.Config{
		Port:        8080,
		DBPath:      "data/taskora.db",
		SessionPath: "data/session.json",
		AuthMode:    os.Getenv("AUTH_MODE"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
		cfg.Port = port
	}
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		cfg.DBPath = envDB
	}
	if envSession := os.Getenv("SESSION_PATH"); envSession != "" {
		cfg.SessionPath = envSession
	}

	// The database lives in data/ by default; create it like `mkdir -p`.
	if err := os.MkdirAll("data", 0o755); err != nil {
		logger.Error("creating data directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
