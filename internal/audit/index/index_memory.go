// Package index tracks the newest audit event time for each entity.
package index

import (
	"context"
	"sync"
	"time"

	"tracker/internal/audit"
)

// InMemoryIndex maps namespace and entity key to the newest event millis.
type InMemoryIndex struct {
	mu     sync.RWMutex
	latest map[string]map[string]int64
}

func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{latest: make(map[string]map[string]int64)}
}

// Touch records msg's time unless a newer one is already stored.
func (i *InMemoryIndex) Touch(_ context.Context, msg audit.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	ns := msg.EntityID.Namespace
	entities, ok := i.latest[ns]
	if !ok {
		entities = make(map[string]int64)
		i.latest[ns] = entities
	}
	key := msg.EntityID.Key()
	if cur, ok := entities[key]; !ok || cur < msg.Time {
		entities[key] = msg.Time
	}
	return nil
}

// Latest returns the newest event time for entity.
func (i *InMemoryIndex) Latest(_ context.Context, entity audit.EntityID) (time.Time, bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	millis, ok := i.latest[entity.Namespace][entity.Key()]
	if !ok {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis).UTC(), true, nil
}
