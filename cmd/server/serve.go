package main

import (
	"github.com/spf13/cobra"

	"github.com/yachaflex/yachaflex-api/internal/platform/postgres"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server until SIGINT or SIGTERM.

In-flight requests are given server.shutdown_timeout_seconds to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := loadAppConfig(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database.URL, l)
			if err != nil {
				return err
			}

			app, err := newApplication(ctx, cfg, l, db)
			if err != nil {
				if cerr := db.Close(); cerr != nil {
					l.Error("Error closing database connection", "error", cerr)
				}
				return err
			}

			return app.Run(ctx)
		},
	}
}
