package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/smarttask/smarttask-api/internal/config"
	"github.com/smarttask/smarttask-api/internal/platform/mail"
	"github.com/smarttask/smarttask-api/internal/platform/postgres"
	"github.com/smarttask/smarttask-api/internal/service"
	"github.com/smarttask/smarttask-api/internal/service/auth"
	"github.com/smarttask/smarttask-api/internal/store"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	passwordHasher   auth.PasswordHasher

	notifier       service.Notifier
	taskService    *service.TaskService
	insightService *service.InsightService
}

// newApplication wires the full dependency graph from configuration:
// database, stores, auth plumbing, mail transport and services.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewUserStore(db, logger)
	taskStore := postgres.NewTaskStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	notifier, err := mail.NewNotifier(cfg.Mail, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create mail notifier: %w", err)
	}

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		taskStore:        taskStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		passwordHasher:   auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		notifier:         notifier,
		taskService:      service.NewTaskService(taskStore, userStore, notifier, logger),
		insightService:   service.NewInsightService(taskStore, logger),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
