package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tracker/internal/dictionary/seed"
	dictservice "tracker/internal/dictionary/service"
	dictstore "tracker/internal/dictionary/store"
	"tracker/internal/platform/postgres"
	txcontext "tracker/pkg/platform/tx"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add dictionary entries from a YAML file, skipping names that exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requirePostgres(opts.cfg, "seed"); err != nil {
				return err
			}
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := seed.Load(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, opts.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := dictservice.New(dictstore.NewPostgres(db), dictservice.WithLogger(opts.logger))
			var res seed.Result
			err = txcontext.Run(ctx, db, func(ctx context.Context) error {
				var applyErr error
				res, applyErr = seed.Apply(ctx, svc, entries)
				return applyErr
			})
			if err != nil {
				return fmt.Errorf("seed rolled back: %w", err)
			}
			opts.logger.InfoContext(ctx, "seed applied", "file", file, "added", res.Added, "skipped", res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file with an entries list")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
