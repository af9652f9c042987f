package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yachaflex/yachaflex-api/internal/platform/postgres"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate {up|down|status|version}",
		Short: "Apply or inspect the embedded database migrations",
		Long: `Run a goose command against database.url using the migrations
embedded in the binary.

Examples:
  yachaflex-api migrate up
  yachaflex-api migrate status --config ./config.yaml`,
		ValidArgs: []string{
			postgres.MigrateUp,
			postgres.MigrateDown,
			postgres.MigrateStatus,
			postgres.MigrateVersion,
		},
		Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadAppConfig(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database.URL, l)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					l.Error("Error closing database connection", "error", cerr)
				}
			}()

			if err := postgres.Migrate(ctx, db, args[0], l); err != nil {
				return fmt.Errorf("migration %s failed: %w", args[0], err)
			}
			l.Info("Migration command completed", "command", args[0])
			return nil
		},
	}
}
