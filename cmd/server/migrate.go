package main

import (
	"github.com/spf13/cobra"

	"tracker/internal/platform/postgres"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requirePostgres(opts.cfg, "migrate"); err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := postgres.Open(ctx, opts.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			opts.logger.InfoContext(ctx, "schema applied")
			return nil
		},
	}
}
