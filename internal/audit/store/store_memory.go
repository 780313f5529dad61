// Package store persists the audit log.
package store

import (
	"context"
	"sort"
	"sync"

	"tracker/internal/audit"
)

// InMemoryStore keeps audit messages per namespace in arrival order.
type InMemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]audit.Message
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{messages: make(map[string][]audit.Message)}
}

func (s *InMemoryStore) Append(_ context.Context, msg audit.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := msg.EntityID.Namespace
	s.messages[ns] = append(s.messages[ns], msg)
	return nil
}

// ListByEntity returns the newest messages for an entity first, at most limit
// when limit is positive.
func (s *InMemoryStore) ListByEntity(_ context.Context, entity audit.EntityID, limit int) ([]audit.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []audit.Message{}
	for _, msg := range s.messages[entity.Namespace] {
		if msg.EntityID.Entity == entity.Entity && msg.EntityID.Name == entity.Name {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
