package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/events"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/reminder"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// application holds the wired dependencies shared by the commands.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore   store.TaskStore
	taskService service.TaskService

	// jwtService is nil when the auth gate is disabled.
	jwtService auth.JWTService

	eventEmitter *events.InMemoryEventEmitter
	scanner      *reminder.Scanner
}

// newApplication wires stores, services and the reminder scanner over db.
// A nil clock means domain.SystemClock.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, clock domain.Clock) (*application, error) {
	if clock == nil {
		clock = domain.SystemClock
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	var err error
	app.taskService, err = service.NewTaskService(
		app.taskStore,
		service.SQLTxRunner(db, app.taskStore),
		clock,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	if cfg.Auth.Enabled {
		app.jwtService, err = auth.NewJWTService(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("bearer token gate enabled",
			slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(logger))

	app.scanner, err = reminder.NewScanner(
		app.taskStore,
		app.eventEmitter,
		clock,
		reminder.Config{
			Interval:   cfg.Reminder.Interval,
			StaleAfter: cfg.Reminder.StaleAfter,
			RunOnStart: cfg.Reminder.RunOnStart,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder scanner: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}
