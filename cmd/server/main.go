// Package main implements the entry point for the SmartTask API server,
// the backend for personal task tracking with due-date driven priorities,
// notification triggers and productivity reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/smarttask/smarttask-api/internal/config"
	"github.com/smarttask/smarttask-api/internal/platform/logger"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrate); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires the application and either runs a
// migration command or serves HTTP.
func run(migrate string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if migrate != "" {
		defer app.cleanup()
		return runMigrations(app.db, migrate, appLogger)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
