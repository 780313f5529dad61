package store

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"tracker/internal/configstore/models"
	"tracker/pkg/platform/sentinel"
)

// InMemoryStore keeps configuration values in a map.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]string)}
}

func (s *InMemoryStore) Create(_ context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[entry.Key]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.values[entry.Key] = entry.Value
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key string) (models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return models.Entry{}, sentinel.ErrNotFound
	}
	return models.Entry{Key: key, Value: value}, nil
}

// ListPrefix returns entries whose key starts with prefix, sorted by key.
func (s *InMemoryStore) ListPrefix(_ context.Context, prefix string) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.Entry{}
	for key, value := range s.values {
		if strings.HasPrefix(key, prefix) {
			entries = append(entries, models.Entry{Key: key, Value: value})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *InMemoryStore) All(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values), nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.values, key)
	return nil
}
