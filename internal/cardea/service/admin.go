package service

import (
	"context"
	"fmt"
	"log"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/extract"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/gate"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/types"
)

// Fetch windows and rendering caps.  Window sizes are a crude bound on
// event-log reads, not a pagination protocol.
const (
	rosterWindow  = 1000
	searchWindow  = 500
	auditWindow   = 1000
	contextWindow = 50

	maxTopRooms       = 5
	maxRoomsListed    = 20
	maxUsersListed    = 20
	maxSearchHits     = 10
	searchDataCap     = 20
	maxAuditMessages  = 5
	maxContextPerRoom = 5

	searchPreviewLen = 100
	auditPreviewLen  = 80
)

// AdminService implements the privileged admin capabilities: a secret
// gate plus cross-room reporting queries over the host's event log.  It
// holds no state of its own beyond the injected gate; every query runs
// over a bounded window and every entry point returns a Response rather
// than an error.
type AdminService struct {
	gate     *gate.Gate
	events   store.EventStore
	rooms    store.RoomStore
	entities store.EntityStore
	agentID  string
	logger   *log.Logger
}

func NewAdminService(
	g *gate.Gate,
	events store.EventStore,
	rooms store.RoomStore,
	entities store.EntityStore,
	agentID string,
	logger *log.Logger,
) *AdminService {
	return &AdminService{
		gate:     g,
		events:   events,
		rooms:    rooms,
		entities: entities,
		agentID:  agentID,
		logger:   logger,
	}
}

// Gate exposes the unlock flag for trigger predicates.
func (s *AdminService) Gate() *gate.Gate { return s.gate }

// Elevate attempts to unlock the admin capabilities with a secret pulled
// from the instruction text.  It is the one entry point that does not
// require the gate to be open.
func (s *AdminService) Elevate(text string) types.Response {
	secret, ok := extract.Secret(text)
	if !ok {
		return types.Response{
			Text:    `Please provide the admin secret, e.g. "elevate privileges, password: YOUR_SECRET".`,
			Success: false,
		}
	}

	if s.gate.Attempt(secret) {
		return types.Response{
			Text:    "Admin privileges granted. Global commands are now available.",
			Success: true,
		}
	}
	return types.Response{
		Text:    "Invalid secret. Admin privileges remain locked.",
		Success: false,
	}
}

// lockedResponse is the fixed short-circuit for gated entry points.  No
// event-log query happens before this check.
func lockedResponse(what string) types.Response {
	return types.Response{
		Text:    fmt.Sprintf("Admin privileges required for %s.", what),
		Success: false,
	}
}

// fail logs a collaborator failure and surfaces a generic response.  No
// internal error detail leaks to the caller.
func (s *AdminService) fail(op string, err error) types.Response {
	s.logger.Printf("admin %s error: %v", op, err)
	return types.Response{
		Text:    "Internal error. Please check the logs.",
		Success: false,
	}
}

// roomNames batch-resolves display names for the given room ids.  Rooms
// without a record or without a name are simply absent from the map.
func (s *AdminService) roomNames(ctx context.Context, ids []string) (map[string]string, error) {
	rooms, err := s.rooms.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(rooms))
	for _, r := range rooms {
		if r.Name != "" {
			names[r.ID] = r.Name
		}
	}
	return names, nil
}

// roomLabel falls back to a truncated id when no display name resolved.
func roomLabel(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return "Room " + shortID(id)
}
