// Package store defines the read/write surface Cardea consumes from the
// host: an append-only event log plus batch lookups for rooms and
// entities.  Implementations live in the memory and sqlite subpackages.
package store

import (
	"context"
	"time"
)

// Event is a single recorded message/action.  Events are unique by ID and
// ordered by CreatedAt; storage order is not guaranteed to be monotonic.
type Event struct {
	ID        string
	AgentID   string
	RoomID    string
	EntityID  string
	Text      string
	CreatedAt time.Time
}

// Room is a chat room/channel as described by the host.  Name, Source and
// Type may be empty for rooms only ever seen through events.
type Room struct {
	ID     string
	Name   string
	Source string
	Type   string
}

// Entity is a user known to the host.  Names is ordered; the first entry
// is the primary display name.
type Entity struct {
	ID       string
	Names    []string
	Metadata map[string]any
}

// EventQuery bounds a read of the event log.  Every query is bounded: by
// a [Start, End) time range, a row count, or both.
type EventQuery struct {
	AgentID string     // empty = all agents
	Start   *time.Time // inclusive lower bound on CreatedAt
	End     *time.Time // exclusive upper bound on CreatedAt
	Count   int        // max rows returned; 0 = no cap beyond the range
}

// EventStore is the append-only event log.
//
// List returns events newest-first (CreatedAt descending).  Callers that
// need "the most recent N" rely on that ordering.
type EventStore interface {
	Append(ctx context.Context, ev Event) error
	List(ctx context.Context, q EventQuery) ([]Event, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RoomStore resolves room records in batch.  Missing ids are silently
// omitted from the result, so len(result) <= len(ids).
type RoomStore interface {
	Upsert(ctx context.Context, r Room) error
	ByIDs(ctx context.Context, ids []string) ([]Room, error)
}

// EntityStore resolves entity records in batch, with the same omission
// rule as RoomStore.
type EntityStore interface {
	Upsert(ctx context.Context, e Entity) error
	ByIDs(ctx context.Context, ids []string) ([]Entity, error)
}
