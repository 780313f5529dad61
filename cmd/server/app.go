package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tracker/internal/audit"
	auditindex "tracker/internal/audit/index"
	auditstore "tracker/internal/audit/store"
	configservice "tracker/internal/configstore/service"
	configstore "tracker/internal/configstore/store"
	dictmetrics "tracker/internal/dictionary/metrics"
	dictservice "tracker/internal/dictionary/service"
	dictstore "tracker/internal/dictionary/store"
	httpapi "tracker/internal/http"
	"tracker/internal/platform/config"
	"tracker/internal/platform/metrics"
	"tracker/internal/platform/postgres"
	redisclient "tracker/internal/platform/redis"
)

// app holds the long-lived handles opened at startup and closed at shutdown.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry

	db    *sql.DB
	redis *redisclient.Client

	dictionary *dictservice.Service
	configs    *configservice.Service
	publisher  *audit.Publisher
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	if cfg.NeedsPostgres() {
		if a.db, err = postgres.Open(ctx, cfg.Database); err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
	}
	if cfg.NeedsRedis() {
		if a.redis, err = redisclient.New(ctx, cfg.Redis); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	a.dictionary = dictservice.New(a.dictionaryStore(),
		dictservice.WithLogger(logger),
		dictservice.WithMetrics(dictmetrics.New(a.registry)),
		dictservice.WithStoreTimeout(cfg.Storage.Timeout),
	)
	a.configs = configservice.New(a.configStore(),
		configservice.WithLogger(logger),
		configservice.WithStoreTimeout(cfg.Storage.Timeout),
	)

	if cfg.Audit.Enabled {
		a.publisher = audit.NewPublisher(cfg.Audit.Namespace,
			a.auditLogStore(),
			audit.NewMetricsCube(a.registry),
			a.auditIndex(),
			audit.WithLogger(logger),
			audit.WithMetrics(audit.NewMetrics(a.registry)),
			audit.WithSinkBreaker(cfg.Audit.BreakerThreshold, cfg.Audit.BreakerCooldown),
		)
	}
	return a, nil
}

func (a *app) dictionaryStore() dictservice.Store {
	if a.cfg.Storage.DictionaryBackend == config.BackendPostgres {
		return dictstore.NewPostgres(a.db)
	}
	return dictstore.NewInMemoryStore()
}

func (a *app) configStore() configservice.Store {
	switch a.cfg.Storage.ConfigBackend {
	case config.BackendPostgres:
		return configstore.NewPostgres(a.db)
	case config.BackendRedis:
		return configstore.NewRedis(a.redis.Client)
	default:
		return configstore.NewInMemoryStore()
	}
}

func (a *app) auditLogStore() audit.LogStore {
	if a.cfg.Audit.LogBackend == config.BackendPostgres {
		return auditstore.NewPostgres(a.db)
	}
	return auditstore.NewInMemoryStore()
}

func (a *app) auditIndex() audit.LatestIndex {
	if a.cfg.Audit.IndexBackend == config.BackendRedis {
		return auditindex.NewRedisIndex(a.redis.Client)
	}
	return auditindex.NewInMemoryIndex()
}

func (a *app) router() http.Handler {
	checks := map[string]httpapi.HealthCheck{}
	if a.db != nil {
		checks["postgres"] = a.db.PingContext
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Health
	}
	return httpapi.NewRouter(httpapi.Deps{
		Logger:         a.logger,
		Dictionary:     a.dictionary,
		Config:         a.configs,
		HTTPMetrics:    metrics.NewHTTP(a.registry),
		Gatherer:       a.registry,
		HealthChecks:   checks,
		RequestTimeout: a.cfg.Server.RequestTimeout,
		AdminToken:     a.cfg.Security.AdminToken,
	})
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing postgres", "error", err)
		}
	}
}
