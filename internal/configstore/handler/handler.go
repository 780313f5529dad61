package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tracker/internal/configstore/models"
	dErrors "tracker/pkg/domain-errors"
	"tracker/pkg/platform/httputil"
	"tracker/pkg/requestcontext"
)

// Service defines the configuration operations the handler needs.
type Service interface {
	Add(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string, strict bool) ([]models.Entry, error)
	GetAll(ctx context.Context) (map[string]string, error)
}

// ValueRequest is the body for POST /v1/config/{key}.
type ValueRequest struct {
	Value *string `json:"value"`
}

func (r *ValueRequest) Validate() error {
	if r.Value == nil {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	return nil
}

type Handler struct {
	service    Service
	logger     *slog.Logger
	writeGuard func(http.Handler) http.Handler
}

type Option func(h *Handler)

// WithWriteGuard wraps the add and delete routes.
func WithWriteGuard(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.writeGuard = mw
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/config", func(r chi.Router) {
		r.Get("/", h.HandleGetAll)
		r.Get("/{key}", h.HandleGet)

		r.Group(func(r chi.Router) {
			if h.writeGuard != nil {
				r.Use(h.writeGuard)
			}
			r.Post("/{key}", h.HandleAdd)
			r.Delete("/{key}", h.HandleDelete)
		})
	})
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Add(ctx, chi.URLParam(r, "key"), *req.Value); err != nil {
		h.writeServiceError(ctx, w, "failed to add configuration", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Delete(ctx, chi.URLParam(r, "key")); err != nil {
		h.writeServiceError(ctx, w, "failed to delete configuration", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleGet answers with an array of single-entry {key: value} objects.
// ?strict=true limits the answer to the exact key.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	strict := false
	if raw := r.URL.Query().Get("strict"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "strict must be true or false"))
			return
		}
		strict = parsed
	}

	entries, err := h.service.Get(ctx, chi.URLParam(r, "key"), strict)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get configuration", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.Records(entries))
}

func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values, err := h.service.GetAll(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list configuration", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, values)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	}
	httputil.WriteError(w, err)
}
