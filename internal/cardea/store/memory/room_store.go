package memory

import (
	"context"
	"sync"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
)

type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]store.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]store.Room)}
}

func (s *RoomStore) Upsert(_ context.Context, r store.Room) error {
	if r.ID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	return nil
}

// ByIDs returns known rooms in the order their ids were requested.
// Unknown ids are silently omitted.
func (s *RoomStore) ByIDs(_ context.Context, ids []string) ([]store.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Room, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.rooms[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
