package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

// loadAppConfig loads and validates configuration using the root flags.
func loadAppConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger installs the JSON logger configured for cfg as the default.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("auth_enabled", cfg.Auth.Enabled),
		slog.Bool("reminder_enabled", cfg.Reminder.Enabled),
		slog.Duration("reminder_interval", cfg.Reminder.Interval),
		slog.Duration("reminder_stale_after", cfg.Reminder.StaleAfter))

	return l, nil
}

// bootstrap loads config, logging and the database for commands that need
// all three. The caller owns the returned *sql.DB.
func bootstrap(opts *rootOptions) (*config.Config, *slog.Logger, *sql.DB, error) {
	cfg, err := loadAppConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}

	l, err := setupAppLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := setupAppDatabase(cfg.Database, l)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, l, db, nil
}
