package memory

import (
	"context"
	"sync"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
)

type EntityStore struct {
	mu       sync.RWMutex
	entities map[string]store.Entity
}

func NewEntityStore() *EntityStore {
	return &EntityStore{entities: make(map[string]store.Entity)}
}

func (s *EntityStore) Upsert(_ context.Context, e store.Entity) error {
	if e.ID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[e.ID] = e
	return nil
}

// ByIDs returns known entities in the order their ids were requested.
// Unknown ids are silently omitted.
func (s *EntityStore) ByIDs(_ context.Context, ids []string) ([]store.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
