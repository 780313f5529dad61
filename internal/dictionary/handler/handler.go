package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tracker/internal/dictionary/models"
	dErrors "tracker/pkg/domain-errors"
	"tracker/pkg/platform/httputil"
	"tracker/pkg/requestcontext"
)

// Service defines the data dictionary operations the handler needs.
type Service interface {
	Add(ctx context.Context, entry models.Entry) (*models.Entry, error)
	Update(ctx context.Context, entry models.Entry) (*models.Entry, error)
	Get(ctx context.Context, name string) (*models.Entry, error)
	List(ctx context.Context) ([]models.Entry, error)
	Delete(ctx context.Context, name string) error
	LookupMany(ctx context.Context, names []string) (*models.LookupResult, error)
	Validate(ctx context.Context, candidate models.Candidate) (*models.Report, error)
}

// Handler wires /v1/dictionary endpoints to the dictionary service.
type Handler struct {
	service    Service
	logger     *slog.Logger
	writeGuard func(http.Handler) http.Handler
}

type Option func(h *Handler)

// WithWriteGuard wraps the mutating routes (add, update, delete).
func WithWriteGuard(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.writeGuard = mw
	}
}

// New constructs a dictionary handler.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the dictionary routes. The static /validate segment wins over {name}.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/dictionary", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleLookup)
		r.Post("/validate", h.HandleValidate)
		r.Get("/{name}", h.HandleGet)

		r.Group(func(r chi.Router) {
			if h.writeGuard != nil {
				r.Use(h.writeGuard)
			}
			r.Post("/{name}", h.HandleAdd)
			r.Put("/{name}", h.HandleUpdate)
			r.Delete("/{name}", h.HandleDelete)
		})
	})
}

// HandleAdd handles POST /v1/dictionary/{name}.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.Add(ctx, req.toEntry(chi.URLParam(r, "name")))
	if err != nil {
		h.writeServiceError(ctx, w, "failed to add dictionary entry", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// HandleUpdate handles PUT /v1/dictionary/{name}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.Update(ctx, req.toEntry(chi.URLParam(r, "name")))
	if err != nil {
		h.writeServiceError(ctx, w, "failed to update dictionary entry", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// HandleGet handles GET /v1/dictionary/{name}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, err := h.service.Get(ctx, chi.URLParam(r, "name"))
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get dictionary entry", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// HandleList handles GET /v1/dictionary.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.service.List(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list dictionary entries", err)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

// HandleDelete handles DELETE /v1/dictionary/{name}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Delete(ctx, chi.URLParam(r, "name")); err != nil {
		h.writeServiceError(ctx, w, "failed to delete dictionary entry", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleLookup handles POST /v1/dictionary with a JSON array of names.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LookupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.LookupMany(ctx, *req)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to look up dictionary entries", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLookupResponse(result))
}

// HandleValidate handles POST /v1/dictionary/validate.
// Pass is 200 with no body, conflict is 409 with the report,
// an undeclared column is 404 with {error, columnName}.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.Validate(ctx, req.toCandidate())
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case report != nil && dErrors.HasCode(err, dErrors.CodeConflict):
		httputil.WriteJSON(w, http.StatusConflict, report)
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		httputil.WriteJSON(w, http.StatusNotFound, models.NotFoundReport{
			Error:      dErrors.MessageOf(err),
			ColumnName: req.ColumnName,
		})
	default:
		h.writeServiceError(ctx, w, "failed to validate column", err)
	}
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
