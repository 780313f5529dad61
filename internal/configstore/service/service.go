package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tracker/internal/configstore/models"
	dErrors "tracker/pkg/domain-errors"
	"tracker/pkg/platform/sentinel"
	"tracker/pkg/requestcontext"
)

// Store persists configuration values keyed by their exact key.
type Store interface {
	Create(ctx context.Context, entry models.Entry) error
	Get(ctx context.Context, key string) (models.Entry, error)
	ListPrefix(ctx context.Context, prefix string) ([]models.Entry, error)
	All(ctx context.Context) (map[string]string, error)
	Delete(ctx context.Context, key string) error
}

// Service is the key/value configuration store exposed under /v1/config.
type Service struct {
	store        Store
	logger       *slog.Logger
	storeTimeout time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.storeTimeout = d
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stores value under key. An existing key is never overwritten.
func (s *Service) Add(ctx context.Context, key, value string) error {
	if key == "" {
		return dErrors.New(dErrors.CodeValidation, "configuration key is required")
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Create(storeCtx, models.Entry{Key: key, Value: value}); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyExists, "Configuration for "+key+" already exists.")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add configuration")
	}

	s.logger.InfoContext(ctx, "configuration added",
		"request_id", requestcontext.RequestID(ctx),
		"key", key,
	)
	return nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.Delete(storeCtx, key); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return notFound(key)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete configuration")
	}

	s.logger.InfoContext(ctx, "configuration deleted",
		"request_id", requestcontext.RequestID(ctx),
		"key", key,
	)
	return nil
}

// Get returns the entry for key. When strict is false every key that has key as
// a prefix is returned too. Entries are sorted by key, so an exact match, being the
// shortest, always comes first.
func (s *Service) Get(ctx context.Context, key string, strict bool) ([]models.Entry, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if strict {
		entry, err := s.store.Get(storeCtx, key)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, notFound(key)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get configuration")
		}
		return []models.Entry{entry}, nil
	}

	entries, err := s.store.ListPrefix(storeCtx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get configuration")
	}
	if len(entries) == 0 {
		return nil, notFound(key)
	}
	return entries, nil
}

func (s *Service) GetAll(ctx context.Context) (map[string]string, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	values, err := s.store.All(storeCtx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list configuration")
	}
	return values, nil
}

func notFound(key string) error {
	return dErrors.New(dErrors.CodeNotFound, "No configuration found for "+key)
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
