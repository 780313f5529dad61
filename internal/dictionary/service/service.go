package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tracker/internal/dictionary/metrics"
	"tracker/internal/dictionary/models"
	dErrors "tracker/pkg/domain-errors"
	"tracker/pkg/platform/sentinel"
	pkgstrings "tracker/pkg/platform/strings"
	"tracker/pkg/requestcontext"
)

// Store persists entries keyed by normalized name. Names passed in are already normalized.
type Store interface {
	Create(ctx context.Context, entry models.Entry) error
	Update(ctx context.Context, entry models.Entry) error
	Get(ctx context.Context, name string) (models.Entry, error)
	GetMany(ctx context.Context, names []string) (map[string]models.Entry, error)
	List(ctx context.Context) ([]models.Entry, error)
	Delete(ctx context.Context, name string) error
}

// Service owns the data dictionary: entry CRUD, bulk lookup and validation.
type Service struct {
	store        Store
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	storeTimeout time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithStoreTimeout bounds each store call. Zero leaves the caller's deadline alone.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.storeTimeout = d
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("tracker/dictionary"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates an entry. The name is normalized and the type checked before the write.
func (s *Service) Add(ctx context.Context, entry models.Entry) (_ *models.Entry, err error) {
	ctx, span := s.start(ctx, "dictionary.Add", entry.Name)
	defer func() { finish(span, err) }()
	defer s.observe("add", time.Now())

	entry, err = prepare(entry)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Create(storeCtx, entry); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeAlreadyExists, entry.Name+" already exists in data dictionary")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add dictionary entry")
	}

	s.logger.InfoContext(ctx, "dictionary entry added",
		"request_id", requestcontext.RequestID(ctx),
		"column_name", entry.Name,
		"column_type", entry.Type,
	)
	if s.metrics != nil {
		s.metrics.IncrementEntriesAdded()
	}
	return &entry, nil
}

// Update fully replaces an existing entry. The type is checked exactly as in Add.
func (s *Service) Update(ctx context.Context, entry models.Entry) (_ *models.Entry, err error) {
	ctx, span := s.start(ctx, "dictionary.Update", entry.Name)
	defer func() { finish(span, err) }()
	defer s.observe("update", time.Now())

	entry, err = prepare(entry)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Update(storeCtx, entry); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(entry.Name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update dictionary entry")
	}

	s.logger.InfoContext(ctx, "dictionary entry updated",
		"request_id", requestcontext.RequestID(ctx),
		"column_name", entry.Name,
	)
	return &entry, nil
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, name string) (_ *models.Entry, err error) {
	ctx, span := s.start(ctx, "dictionary.Get", name)
	defer func() { finish(span, err) }()

	name, err = requireName(name)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	entry, err := s.store.Get(storeCtx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dictionary entry")
	}
	return &entry, nil
}

// List returns every entry. Callers must not depend on the order.
func (s *Service) List(ctx context.Context) (_ []models.Entry, err error) {
	ctx, span := s.start(ctx, "dictionary.List", "")
	defer func() { finish(span, err) }()
	defer s.observe("list", time.Now())

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	entries, err := s.store.List(storeCtx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list dictionary entries")
	}
	return entries, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, name string) (err error) {
	ctx, span := s.start(ctx, "dictionary.Delete", name)
	defer func() { finish(span, err) }()

	name, err = requireName(name)
	if err != nil {
		return err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Delete(storeCtx, name); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return notFound(name)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete dictionary entry")
	}

	s.logger.InfoContext(ctx, "dictionary entry deleted",
		"request_id", requestcontext.RequestID(ctx),
		"column_name", name,
	)
	return nil
}

// LookupMany partitions names into stored entries and unknown names.
// Names that normalize alike are looked up once. Each distinct name lands in
// exactly one partition: Found is keyed by normalized name, NotFound echoes the
// first spelling the caller sent, in order of first occurrence. Blank names are
// never stored, so they always end up in NotFound.
func (s *Service) LookupMany(ctx context.Context, names []string) (_ *models.LookupResult, err error) {
	ctx, span := s.start(ctx, "dictionary.LookupMany", "")
	defer func() { finish(span, err) }()
	defer s.observe("lookup_many", time.Now())

	distinct := pkgstrings.DistinctBy(names, lookupKey)
	span.SetAttributes(attribute.Int("dictionary.lookup.names", len(distinct)))
	if s.metrics != nil {
		s.metrics.ObserveLookupSize(len(distinct))
	}

	result := &models.LookupResult{Found: map[string]models.Entry{}, NotFound: []string{}}
	storable := make([]string, 0, len(distinct))
	for _, d := range distinct {
		if models.NormalizeName(d.Key) != "" {
			storable = append(storable, d.Key)
		}
	}

	found := map[string]models.Entry{}
	if len(storable) > 0 {
		storeCtx, cancel := s.storeContext(ctx)
		defer cancel()
		found, err = s.store.GetMany(storeCtx, storable)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up dictionary entries")
		}
	}

	for _, d := range distinct {
		if entry, ok := found[d.Key]; ok {
			result.Found[d.Key] = entry
			continue
		}
		result.NotFound = append(result.NotFound, d.First)
	}
	return result, nil
}

// lookupKey is the normalized name, or the raw value for a blank name so
// distinct blank spellings stay distinct.
func lookupKey(raw string) string {
	if name := models.NormalizeName(raw); name != "" {
		return name
	}
	return raw
}

// Validate reconciles an observed column against its entry.
//
// An undeclared column returns a CodeNotFound error and no report. A mismatch returns
// the report together with a CodeConflict error. A pass returns the report and nil.
func (s *Service) Validate(ctx context.Context, candidate models.Candidate) (_ *models.Report, err error) {
	ctx, span := s.start(ctx, "dictionary.Validate", candidate.Name)
	defer func() { finish(span, err) }()
	defer s.observe("validate", time.Now())

	name, err := requireName(candidate.Name)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	entry, err := s.store.Get(storeCtx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.countValidation(metrics.OutcomeNotFound)
			return nil, notFound(name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dictionary entry")
	}

	report := models.Reconcile(entry, candidate)
	if report.Passed() {
		s.countValidation(metrics.OutcomePass)
		return report, nil
	}

	s.countValidation(metrics.OutcomeConflict)
	s.logger.InfoContext(ctx, "dictionary validation conflict",
		"request_id", requestcontext.RequestID(ctx),
		"column_name", name,
		"reasons", len(report.Reason),
	)
	return report, dErrors.New(dErrors.CodeConflict,
		fmt.Sprintf("%s does not match its data dictionary entry", name))
}

// prepare normalizes the name and checks the declared type.
func prepare(entry models.Entry) (models.Entry, error) {
	name, err := requireName(entry.Name)
	if err != nil {
		return entry, err
	}
	entry.Name = name
	entry.Type = strings.TrimSpace(entry.Type)
	entry.Description = strings.TrimSpace(entry.Description)
	if entry.Type == "" {
		return entry, dErrors.New(dErrors.CodeValidation, "columnType is required for "+name)
	}
	if _, ok := models.ParseType(entry.Type); !ok {
		return entry, dErrors.New(dErrors.CodeInvalidType,
			fmt.Sprintf("%s is not a valid column type for %s", entry.Type, name))
	}
	return entry, nil
}

func requireName(raw string) (string, error) {
	name := models.NormalizeName(raw)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "columnName is required")
	}
	if len(name) > models.MaxNameLength {
		return "", dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("columnName must be at most %d characters", models.MaxNameLength))
	}
	return name, nil
}

func notFound(name string) error {
	return dErrors.New(dErrors.CodeNotFound, name+" does not exist in data dictionary")
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *Service) start(ctx context.Context, op, name string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, op)
	if name != "" {
		span.SetAttributes(attribute.String("dictionary.column_name", models.NormalizeName(name)))
	}
	return ctx, span
}

// finish records err on span unless it is an expected client outcome.
func finish(span trace.Span, err error) {
	if err != nil && dErrors.CodeOf(err) == dErrors.CodeInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
	}
	span.End()
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func (s *Service) countValidation(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementValidation(outcome)
	}
}
