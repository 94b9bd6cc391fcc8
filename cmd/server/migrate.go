package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"carehub/internal/platform/config"
	"carehub/internal/platform/database"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending goose migrations against the PostgreSQL database.`,
		RunE:  runMigrate,
	}
	cmd.Flags().String("database-url", "", "PostgreSQL DSN (overrides DATABASE_URL)")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMigrateConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	cmd.Println("Connecting to database...")
	pool, err := database.New(ctx, cfg)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	if err := database.MigratePool(ctx, pool); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}

func loadMigrateConfig(cmd *cobra.Command) (database.Config, error) {
	cfg := database.DefaultConfig()
	cfg.URL, _ = cmd.Flags().GetString("database-url")
	if cfg.URL == "" {
		server, err := config.FromEnv()
		if err != nil {
			return database.Config{}, err
		}
		cfg.URL = server.DatabaseURL
	}
	if cfg.URL == "" {
		return database.Config{}, oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}
	return cfg, nil
}
