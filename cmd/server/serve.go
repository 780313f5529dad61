package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tracker/internal/platform/httpserver"
	"tracker/internal/platform/kafka/consumer"
	"tracker/internal/platform/postgres"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when audit is enabled, the audit consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "apply the Postgres schema on startup")
	return cmd
}

func serve(ctx context.Context, opts *rootOptions, autoMigrate bool) error {
	cfg, log := opts.cfg, opts.logger

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if a.db != nil && autoMigrate {
		if err := postgres.Migrate(ctx, a.db); err != nil {
			return err
		}
	}

	var c *consumer.Consumer
	if a.publisher != nil {
		if cfg.Kafka.CreateTopic {
			if err := consumer.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions); err != nil {
				return err
			}
		}
		c, err = consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, a.publisher, log)
		if err != nil {
			return err
		}
		defer c.Close()
	}

	srv := httpserver.New(cfg.Server, a.router())
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting tracker", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if c != nil {
		g.Go(func() error {
			return c.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout.String())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
