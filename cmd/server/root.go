package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the carehub CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carehub",
		Short: "carehub - healthcare assistant API",
		Long: `carehub serves account registration, cookie sessions and
per-user medication schedules for the healthcare assistant web client.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-level", "", "log level (overrides LOG_LEVEL)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewTokenCmd())

	return cmd
}
