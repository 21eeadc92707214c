package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/extract"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/types"
)

// UserAudit builds a per-user activity report: first/last seen, per-room
// message counts, and a sample of recent messages.
func (s *AdminService) UserAudit(ctx context.Context, text string) types.Response {
	if !s.gate.Unlocked() {
		return lockedResponse("user audits")
	}

	userID, ok := extract.UserID(text)
	if !ok {
		return types.Response{
			Text:    `Please specify a user id to audit, e.g. "audit user 1c2d3e4f".`,
			Success: false,
		}
	}

	events, err := s.events.List(ctx, store.EventQuery{AgentID: s.agentID, Count: auditWindow})
	if err != nil {
		return s.fail("user audit", err)
	}

	var matches []store.Event
	for _, ev := range events {
		if ev.EntityID == userID {
			matches = append(matches, ev)
		}
	}
	if len(matches) == 0 {
		// Zero activity is an answer, not an error.
		return types.Response{
			Text:    fmt.Sprintf("No activity found for user %s.", userID),
			Success: true,
		}
	}

	entities, err := s.entities.ByIDs(ctx, []string{userID})
	if err != nil {
		return s.fail("user audit", err)
	}
	var names []string
	if len(entities) > 0 {
		names = entities[0].Names
	}

	firstSeen := matches[0].CreatedAt
	lastSeen := matches[0].CreatedAt
	for _, m := range matches[1:] {
		if m.CreatedAt.Before(firstSeen) {
			firstSeen = m.CreatedAt
		}
		if m.CreatedAt.After(lastSeen) {
			lastSeen = m.CreatedAt
		}
	}

	counts := sortByCountDesc(countByRoom(matches))
	roomNames, err := s.roomNames(ctx, roomIDs(counts))
	if err != nil {
		return s.fail("user audit", err)
	}

	audit := types.UserAudit{
		UserID:        userID,
		Names:         names,
		TotalMessages: len(matches),
		FirstSeen:     firstSeen.UTC().Format(time.RFC3339),
		LastSeen:      lastSeen.UTC().Format(time.RFC3339),
	}
	for _, rc := range counts {
		audit.RoomActivity = append(audit.RoomActivity, types.RoomActivity{
			RoomID:   rc.id,
			RoomName: roomLabel(roomNames, rc.id),
			Count:    rc.count,
		})
	}

	displayNames := "Unknown"
	if len(names) > 0 {
		displayNames = strings.Join(names, ", ")
	}

	var b strings.Builder
	b.WriteString("User audit report\n\n")
	fmt.Fprintf(&b, "Entity ID: %s\n", userID)
	fmt.Fprintf(&b, "Name(s): %s\n", displayNames)
	fmt.Fprintf(&b, "First seen: %s\n", audit.FirstSeen)
	fmt.Fprintf(&b, "Last seen: %s\n", audit.LastSeen)
	fmt.Fprintf(&b, "Total messages: %d\n", audit.TotalMessages)
	fmt.Fprintf(&b, "Active rooms: %d\n", len(counts))

	b.WriteString("\nRoom activity:\n")
	for i, r := range audit.RoomActivity[:min(len(audit.RoomActivity), maxTopRooms)] {
		fmt.Fprintf(&b, "%d. %s (%d messages)\n", i+1, r.RoomName, r.Count)
	}

	// Recent messages in retrieval order (newest first, per EventStore.List).
	b.WriteString("\nRecent messages:\n")
	for i, m := range matches[:min(len(matches), maxAuditMessages)] {
		fmt.Fprintf(&b, "%d. [%s] %q\n", i+1,
			m.CreatedAt.UTC().Format("2006-01-02 15:04"),
			truncate(m.Text, auditPreviewLen),
		)
	}

	return types.Response{Text: b.String(), Data: audit, Success: true}
}
