package store

import (
	"context"
	"sort"
	"sync"

	"tracker/internal/dictionary/models"
	"tracker/pkg/platform/sentinel"
)

// InMemoryStore keeps entries in a map keyed by normalized name.
// Each method holds the lock for its whole read-check-write.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]models.Entry)}
}

func (s *InMemoryStore) Create(_ context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.Name]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.entries[entry.Name] = entry
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.Name]; !ok {
		return sentinel.ErrNotFound
	}
	s.entries[entry.Name] = entry
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, name string) (models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[name]
	if !ok {
		return models.Entry{}, sentinel.ErrNotFound
	}
	return entry, nil
}

// GetMany returns the stored entries among names. Missing names are simply absent.
func (s *InMemoryStore) GetMany(_ context.Context, names []string) (map[string]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[string]models.Entry, len(names))
	for _, name := range names {
		if entry, ok := s.entries[name]; ok {
			found[name] = entry
		}
	}
	return found, nil
}

// List returns every entry sorted by name.
func (s *InMemoryStore) List(_ context.Context) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, name)
	return nil
}
