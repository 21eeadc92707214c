package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
)

// EventStore is an in-memory append-only event log.  It is intended for
// use in tests and dev environments.
type EventStore struct {
	mu     sync.Mutex
	events []store.Event
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Append(_ context.Context, ev store.Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *EventStore) List(_ context.Context, q store.EventQuery) ([]store.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Event, 0, len(s.events))
	for _, ev := range s.events {
		if q.AgentID != "" && ev.AgentID != q.AgentID {
			continue
		}
		if q.Start != nil && ev.CreatedAt.Before(*q.Start) {
			continue
		}
		if q.End != nil && !ev.CreatedAt.Before(*q.End) {
			continue
		}
		out = append(out, ev)
	}

	// Newest first; equal timestamps keep append order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if q.Count > 0 && len(out) > q.Count {
		out = out[:q.Count]
	}
	return out, nil
}

func (s *EventStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, ev := range s.events {
		if ev.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return deleted, nil
}

// Len returns the number of stored events.  Test-only helper.
func (s *EventStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
