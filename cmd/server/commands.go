package main

import (
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scanner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer closeDatabase(db, logger)

			if autoMigrate {
				if err := postgres.Migrate(cmd.Context(), db, "up", logger); err != nil {
					return err
				}
			}

			app, err := newApplication(cfg, logger, db, nil)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
			if err != nil {
				return fmt.Errorf("failed to listen on port %d: %w", cfg.Server.Port, err)
			}

			return app.runUntilSignal(ln)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(postgres.MigrationCommands, "|") + "]",
		Short:     "Manage the database schema (default: up)",
		ValidArgs: postgres.MigrationCommands,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			_, logger, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer closeDatabase(db, logger)

			return postgres.Migrate(cmd.Context(), db, command, logger)
		},
	}
}

func newRemindCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run a single reminder scan and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer closeDatabase(db, logger)

			app, err := newApplication(cfg, logger, db, nil)
			if err != nil {
				return err
			}

			n, err := app.scanner.ScanOnce(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("reminder scan finished", slog.Int("reminders", n))
			fmt.Fprintf(cmd.OutOrStdout(), "emitted %d reminder(s)\n", n)
			return nil
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the bearer gate",
		Long: `Mint an HS256 access token signed with auth.jwt_secret. The token is valid
for auth.token_lifetime_minutes and is printed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig(opts)
			if err != nil {
				return err
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}

			token, err := jwtService.GenerateToken(cmd.Context(), subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "subject recorded in the token")
	return cmd
}
