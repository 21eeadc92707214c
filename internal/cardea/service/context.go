package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/types"
)

// GlobalContext produces a bounded cross-room digest for ambient
// inclusion in downstream generation.  While locked it returns an empty
// payload — never an error, never partial admin data — and performs no
// event-log query.
func (s *AdminService) GlobalContext(ctx context.Context) types.Response {
	if !s.gate.Unlocked() {
		return types.Response{Text: "", Success: true}
	}

	events, err := s.events.List(ctx, store.EventQuery{AgentID: s.agentID, Count: contextWindow})
	if err != nil {
		// A broken provider must not inject error text into a prompt.
		s.logger.Printf("admin global context error: %v", err)
		return types.Response{Text: "", Success: false}
	}
	if len(events) == 0 {
		return types.Response{
			Text:    "No recent messages found across all rooms.",
			Data:    types.GlobalContext{},
			Success: true,
		}
	}

	// Group by room, preserving first-observed (newest-first) order.
	order := distinctRoomIDs(events)
	byRoom := make(map[string][]store.Event, len(order))
	for _, ev := range events {
		byRoom[ev.RoomID] = append(byRoom[ev.RoomID], ev)
	}

	names, err := s.roomNames(ctx, order)
	if err != nil {
		s.logger.Printf("admin global context error: %v", err)
		return types.Response{Text: "", Success: false}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Global activity summary (%d recent messages across %d rooms):\n\n",
		len(events), len(order))

	for _, roomID := range order {
		msgs := byRoom[roomID]
		fmt.Fprintf(&b, "=== %s (%d messages) ===\n", roomLabel(names, roomID), len(msgs))
		for _, m := range msgs[:min(len(msgs), maxContextPerRoom)] {
			fmt.Fprintf(&b, "[%s] Entity %s: %s\n",
				m.CreatedAt.UTC().Format(time.RFC3339),
				shortID(m.EntityID),
				truncate(m.Text, searchPreviewLen),
			)
		}
		if n := len(msgs) - maxContextPerRoom; n > 0 {
			fmt.Fprintf(&b, "... and %d more messages\n", n)
		}
		b.WriteString("\n")
	}

	return types.Response{
		Text:    b.String(),
		Data:    types.GlobalContext{MessageCount: len(events), RoomCount: len(order)},
		Success: true,
	}
}
