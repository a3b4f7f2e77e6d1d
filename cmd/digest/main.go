// Package main implements the reminder digest batch job. It sweeps every
// active user once, mails one digest per user with tasks due today or
// tomorrow, and exits. Scheduling is left to the operator (cron, systemd
// timers or a container scheduler).
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/smarttask/smarttask-api/internal/config"
	"github.com/smarttask/smarttask-api/internal/platform/logger"
	"github.com/smarttask/smarttask-api/internal/platform/mail"
	"github.com/smarttask/smarttask-api/internal/platform/postgres"
	"github.com/smarttask/smarttask-api/internal/service"
)

func main() {
	includeOverdue := flag.Bool("include-overdue", false, "add an overdue section to each digest")
	dryRun := flag.Bool("dry-run", false, "log the would-be digests without sending mail")
	flag.Parse()

	if err := run(*includeOverdue, *dryRun); err != nil {
		log.Fatalf("Digest run failed: %v", err)
	}
}

func run(includeOverdue, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	notifier, err := mail.NewNotifier(cfg.Mail, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create mail notifier: %w", err)
	}

	digest := service.NewDigestService(
		postgres.NewUserStore(db, appLogger),
		postgres.NewTaskStore(db, appLogger),
		notifier,
		appLogger,
	)

	result, err := digest.Run(context.Background(), service.DigestOptions{
		IncludeOverdue: includeOverdue,
		DryRun:         dryRun,
	})
	if err != nil {
		appLogger.Error("digest run finished with errors",
			"sent", result.Sent,
			"skipped", result.Skipped,
			"error", err)
		return err
	}

	appLogger.Info("digest run completed", "sent", result.Sent, "skipped", result.Skipped)
	return nil
}
