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

// DailyReport summarizes activity across all rooms for one UTC day.  The
// day is taken from a YYYY-MM-DD token in the instruction, defaulting to
// today.
func (s *AdminService) DailyReport(ctx context.Context, text string) types.Response {
	if !s.gate.Unlocked() {
		return lockedResponse("global reports")
	}

	day := extract.Day(text, time.Now())
	end := day.Add(24 * time.Hour)

	events, err := s.events.List(ctx, store.EventQuery{
		AgentID: s.agentID,
		Start:   &day,
		End:     &end,
	})
	if err != nil {
		return s.fail("daily report", err)
	}

	counts := sortByCountDesc(countByRoom(events))
	names, err := s.roomNames(ctx, roomIDs(counts))
	if err != nil {
		return s.fail("daily report", err)
	}

	top := counts
	if len(top) > maxTopRooms {
		top = top[:maxTopRooms]
	}

	report := types.DailyReport{
		Date:          day.Format("2006-01-02"),
		TotalMessages: len(events),
		TotalRooms:    len(counts),
	}
	for _, rc := range top {
		report.TopRooms = append(report.TopRooms, types.RoomActivity{
			RoomID:   rc.id,
			RoomName: roomLabel(names, rc.id),
			Count:    rc.count,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily report for %s\n\n", report.Date)
	fmt.Fprintf(&b, "Total messages: %d\n", report.TotalMessages)
	fmt.Fprintf(&b, "Active rooms: %d\n", report.TotalRooms)
	if len(report.TopRooms) > 0 {
		fmt.Fprintf(&b, "\nTop %d most active rooms:\n", len(report.TopRooms))
		for i, r := range report.TopRooms {
			fmt.Fprintf(&b, "%d. %s (%d messages)\n", i+1, r.RoomName, r.Count)
		}
	} else {
		b.WriteString("\nNo activity found for this date.\n")
	}

	return types.Response{Text: b.String(), Data: report, Success: true}
}

// RoomRoster lists every room observed in the most recent event window.
func (s *AdminService) RoomRoster(ctx context.Context) types.Response {
	if !s.gate.Unlocked() {
		return lockedResponse("room listings")
	}

	events, err := s.events.List(ctx, store.EventQuery{AgentID: s.agentID, Count: rosterWindow})
	if err != nil {
		return s.fail("room roster", err)
	}

	rooms, err := s.rooms.ByIDs(ctx, distinctRoomIDs(events))
	if err != nil {
		return s.fail("room roster", err)
	}
	if len(rooms) == 0 {
		return types.Response{Text: "No rooms found in the system.", Success: true}
	}

	roster := types.RoomRoster{TotalRooms: len(rooms)}
	for _, r := range rooms {
		roster.Rooms = append(roster.Rooms, types.RoomInfo{
			ID:     r.ID,
			Name:   r.Name,
			Source: r.Source,
			Type:   r.Type,
		})
	}

	shown := rooms
	if len(shown) > maxRoomsListed {
		shown = shown[:maxRoomsListed]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d rooms:\n\n", len(rooms))
	for i, r := range shown {
		name := r.Name
		if name == "" {
			name = "Room " + shortID(r.ID)
		}
		fmt.Fprintf(&b, "%d. %s - ID: %s\n", i+1, name, shortID(r.ID))
		if r.Source != "" {
			fmt.Fprintf(&b, "   Source: %s\n", r.Source)
		}
	}
	if n := len(rooms) - maxRoomsListed; n > 0 {
		fmt.Fprintf(&b, "\n... and %d more rooms.", n)
	}

	return types.Response{Text: b.String(), Data: roster, Success: true}
}

// UserRoster lists every entity observed in the most recent event window,
// excluding the agent itself.
func (s *AdminService) UserRoster(ctx context.Context) types.Response {
	if !s.gate.Unlocked() {
		return lockedResponse("user listings")
	}

	events, err := s.events.List(ctx, store.EventQuery{AgentID: s.agentID, Count: rosterWindow})
	if err != nil {
		return s.fail("user roster", err)
	}

	users, err := s.entities.ByIDs(ctx, distinctEntityIDs(events, s.agentID))
	if err != nil {
		return s.fail("user roster", err)
	}
	if len(users) == 0 {
		return types.Response{Text: "No users found in the system.", Success: true}
	}

	roster := types.UserRoster{TotalUsers: len(users)}
	for _, u := range users {
		names := u.Names
		if names == nil {
			names = []string{}
		}
		roster.Users = append(roster.Users, types.UserInfo{ID: u.ID, Names: names})
	}

	shown := users
	if len(shown) > maxUsersListed {
		shown = shown[:maxUsersListed]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d users:\n\n", len(users))
	for i, u := range shown {
		name := "Unknown"
		if len(u.Names) > 0 {
			name = u.Names[0]
		}
		fmt.Fprintf(&b, "%d. %s - ID: %s\n", i+1, name, shortID(u.ID))
	}
	if n := len(users) - maxUsersListed; n > 0 {
		fmt.Fprintf(&b, "\n... and %d more users.", n)
	}

	return types.Response{Text: b.String(), Data: roster, Success: true}
}
