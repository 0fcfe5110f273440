package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "task-api",
		Short: "Task tracking API with stale-task reminders",
		Long: `task-api serves a JSON API for creating, listing, updating and deleting
tasks, and periodically emits a reminder for every task that has stayed
Pending for longer than the configured threshold.

Configuration comes from config.yaml, a .env file and TASKAPI_* environment
variables, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a config file (default ./config.yaml if present)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newRemindCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "task-api %s\ncommit: %s\n", appVersion, appCommit)
		},
	}
}
