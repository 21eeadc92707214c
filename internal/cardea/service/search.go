package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/extract"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/types"
)

// SearchMessages runs a case-insensitive substring search over the most
// recent event window, across all rooms.
func (s *AdminService) SearchMessages(ctx context.Context, text string) types.Response {
	if !s.gate.Unlocked() {
		return lockedResponse("global search")
	}

	query, ok := extract.Query(text)
	if !ok {
		return types.Response{
			Text:    `Please specify what to search for, e.g. "search all messages for production issue".`,
			Success: false,
		}
	}

	events, err := s.events.List(ctx, store.EventQuery{AgentID: s.agentID, Count: searchWindow})
	if err != nil {
		return s.fail("search", err)
	}

	needle := strings.ToLower(query)
	var matches []store.Event
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Text), needle) {
			matches = append(matches, ev)
		}
	}
	if len(matches) == 0 {
		return types.Response{
			Text:    fmt.Sprintf("No messages found containing %q.", query),
			Success: true,
		}
	}

	// Newest first; equal timestamps keep retrieval order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	names, err := s.roomNames(ctx, distinctRoomIDs(matches))
	if err != nil {
		return s.fail("search", err)
	}

	results := types.SearchResults{Query: query, TotalResults: len(matches)}
	for _, m := range matches[:min(len(matches), searchDataCap)] {
		results.Results = append(results.Results, types.SearchHit{
			ID:          m.ID,
			RoomID:      m.RoomID,
			EntityID:    m.EntityID,
			Text:        m.Text,
			CreatedAtMs: m.CreatedAt.UTC().UnixMilli(),
		})
	}

	shown := matches
	if len(shown) > maxSearchHits {
		shown = shown[:maxSearchHits]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d messages matching %q:\n\n", len(matches), query)
	for i, m := range shown {
		fmt.Fprintf(&b, "%d. [%s] in %s\n", i+1,
			m.CreatedAt.UTC().Format("2006-01-02 15:04"),
			roomLabel(names, m.RoomID),
		)
		fmt.Fprintf(&b, "   Entity %s: %q\n\n", shortID(m.EntityID), truncate(m.Text, searchPreviewLen))
	}
	if n := len(matches) - maxSearchHits; n > 0 {
		fmt.Fprintf(&b, "... and %d more messages.", n)
	}

	return types.Response{Text: b.String(), Data: results, Success: true}
}
