package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/yakoovad/golf-fundraiser/internal/config"
	"github.com/yakoovad/golf-fundraiser/internal/db"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := db.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrate(cmd.Context(), *configPath, command)
		},
	}
}

func runMigrate(ctx context.Context, configPath, command string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return db.Migrate(ctx, pool, command)
}
