// Package httpapi assembles the HTTP surface: middleware, domain routes, health and metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	confighandler "tracker/internal/configstore/handler"
	dicthandler "tracker/internal/dictionary/handler"
	"tracker/internal/platform/metrics"
	"tracker/internal/platform/middleware"
	"tracker/pkg/platform/httputil"
	"tracker/pkg/platform/middleware/admin"
	"tracker/pkg/platform/middleware/metadata"
	"tracker/pkg/platform/middleware/request"
	"tracker/pkg/platform/middleware/requesttime"
)

// HealthCheck pings one backend.
type HealthCheck func(ctx context.Context) error

// Deps are the services and settings the router needs.
type Deps struct {
	Logger            *slog.Logger
	Dictionary        dicthandler.Service
	Config            confighandler.Service
	HTTPMetrics       *metrics.HTTPMetrics
	Gatherer          prometheus.Gatherer
	HealthChecks      map[string]HealthCheck
	RequestTimeout    time.Duration
	AdminToken        string
	HealthCheckBudget time.Duration
}

// NewRouter wires every route behind the shared middleware stack.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(metadata.ClientMetadata)
	r.Use(request.RequestContext)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(deps.Logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Latency(deps.HTTPMetrics))
	}
	r.Use(chimw.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	guard := admin.RequireAdminToken(deps.AdminToken, deps.Logger)
	dicthandler.New(deps.Dictionary, deps.Logger, dicthandler.WithWriteGuard(guard)).Register(r)
	confighandler.New(deps.Config, deps.Logger, confighandler.WithWriteGuard(guard)).Register(r)

	r.Get("/healthz", healthHandler(deps.HealthChecks, deps.HealthCheckBudget))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, budget time.Duration) http.HandlerFunc {
	if budget <= 0 {
		budget = 2 * time.Second
	}
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), budget)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
