package service

import (
	"sort"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
)

// Pure aggregation helpers shared by the admin capabilities.  All operate
// on an already-bounded window of events and mutate nothing.

type roomCount struct {
	id    string
	count int
}

// countByRoom tallies events per room, preserving first-observed order.
func countByRoom(events []store.Event) []roomCount {
	idx := make(map[string]int, len(events))
	var out []roomCount
	for _, ev := range events {
		if ev.RoomID == "" {
			continue
		}
		if i, ok := idx[ev.RoomID]; ok {
			out[i].count++
			continue
		}
		idx[ev.RoomID] = len(out)
		out = append(out, roomCount{id: ev.RoomID, count: 1})
	}
	return out
}

// sortByCountDesc orders counts descending.  Equal counts tie-break on
// ascending room id so the ordering never depends on map iteration.
func sortByCountDesc(rc []roomCount) []roomCount {
	sort.Slice(rc, func(i, j int) bool {
		if rc[i].count != rc[j].count {
			return rc[i].count > rc[j].count
		}
		return rc[i].id < rc[j].id
	})
	return rc
}

func roomIDs(rc []roomCount) []string {
	ids := make([]string, len(rc))
	for i, c := range rc {
		ids[i] = c.id
	}
	return ids
}

// distinctRoomIDs returns each room id once, in first-observed order.
func distinctRoomIDs(events []store.Event) []string {
	seen := make(map[string]struct{}, len(events))
	var out []string
	for _, ev := range events {
		if ev.RoomID == "" {
			continue
		}
		if _, ok := seen[ev.RoomID]; ok {
			continue
		}
		seen[ev.RoomID] = struct{}{}
		out = append(out, ev.RoomID)
	}
	return out
}

// distinctEntityIDs returns each entity id once, in first-observed order,
// skipping the excluded id (the agent's own).
func distinctEntityIDs(events []store.Event, exclude string) []string {
	seen := make(map[string]struct{}, len(events))
	var out []string
	for _, ev := range events {
		if ev.EntityID == "" || ev.EntityID == exclude {
			continue
		}
		if _, ok := seen[ev.EntityID]; ok {
			continue
		}
		seen[ev.EntityID] = struct{}{}
		out = append(out, ev.EntityID)
	}
	return out
}

// truncate caps s at max characters, appending the ellipsis marker only
// when truncation actually occurred.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// shortID renders an id as its first 8 characters plus the ellipsis
// marker.  Short ids pass through unchanged.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
