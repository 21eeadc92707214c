package service_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/gate"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/service"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/store/memory"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/types"
)

const testAgentID = "a9e70000-0000-4000-8000-0000000000aa"

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fixture struct {
	svc      *service.AdminService
	events   *memory.EventStore
	rooms    *memory.RoomStore
	entities *memory.EntityStore
}

// newFixture builds an AdminService over in-memory stores.  When unlocked
// is true the gate is opened with the correct secret up front.
func newFixture(t *testing.T, unlocked bool) fixture {
	t.Helper()

	g := gate.New("super-secret", silentLogger())
	if unlocked {
		if !g.Attempt("super-secret") {
			t.Fatal("failed to unlock test gate")
		}
	}

	events := memory.NewEventStore()
	rooms := memory.NewRoomStore()
	entities := memory.NewEntityStore()
	svc := service.NewAdminService(g, events, rooms, entities, testAgentID, silentLogger())
	return fixture{svc: svc, events: events, rooms: rooms, entities: entities}
}

func (f fixture) addEvent(t *testing.T, id, roomID, entityID, text string, at time.Time) {
	t.Helper()
	err := f.events.Append(context.Background(), store.Event{
		ID:        id,
		AgentID:   testAgentID,
		RoomID:    roomID,
		EntityID:  entityID,
		Text:      text,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("append event: %v", err)
	}
}

// countingEventStore wraps nothing — it fails the test if any query
// reaches the event log.
type countingEventStore struct {
	listCalls int
}

func (c *countingEventStore) Append(context.Context, store.Event) error { return nil }

func (c *countingEventStore) List(context.Context, store.EventQuery) ([]store.Event, error) {
	c.listCalls++
	return nil, nil
}

func (c *countingEventStore) PruneOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// ── Authorization gate ───────────────────────────────────────────────────────

func TestGatedEntryPoints_LockedShortCircuit(t *testing.T) {
	g := gate.New("super-secret", silentLogger())
	counting := &countingEventStore{}
	svc := service.NewAdminService(
		g, counting, memory.NewRoomStore(), memory.NewEntityStore(), testAgentID, silentLogger(),
	)

	ctx := context.Background()
	responses := []types.Response{
		svc.DailyReport(ctx, "global report for today"),
		svc.RoomRoster(ctx),
		svc.UserRoster(ctx),
		svc.SearchMessages(ctx, "search all messages for outage"),
		svc.UserAudit(ctx, "audit user deadbeef-0000"),
	}
	for i, resp := range responses {
		if resp.Success {
			t.Errorf("response %d: expected success=false while locked", i)
		}
		if !strings.Contains(resp.Text, "privileges required") {
			t.Errorf("response %d: expected privileges-required text, got %q", i, resp.Text)
		}
	}

	if counting.listCalls != 0 {
		t.Errorf("expected 0 event-log queries while locked, got %d", counting.listCalls)
	}
}

func TestGlobalContext_Locked_EmptyAndNoQuery(t *testing.T) {
	g := gate.New("super-secret", silentLogger())
	counting := &countingEventStore{}
	svc := service.NewAdminService(
		g, counting, memory.NewRoomStore(), memory.NewEntityStore(), testAgentID, silentLogger(),
	)

	resp := svc.GlobalContext(context.Background())
	if !resp.Success {
		t.Error("expected success=true for locked context provider")
	}
	if resp.Text != "" {
		t.Errorf("expected empty text while locked, got %q", resp.Text)
	}
	if counting.listCalls != 0 {
		t.Errorf("expected 0 event-log queries while locked, got %d", counting.listCalls)
	}
}

// ── Elevation ────────────────────────────────────────────────────────────────

func TestElevate_Flow(t *testing.T) {
	f := newFixture(t, false)

	resp := f.svc.Elevate("elevate my privileges to admin")
	if resp.Success {
		t.Error("expected failure when no secret token is present")
	}
	if !strings.Contains(resp.Text, "provide the admin secret") {
		t.Errorf("expected guidance text, got %q", resp.Text)
	}

	resp = f.svc.Elevate("elevate privileges, password: wrong")
	if resp.Success {
		t.Error("expected failure for wrong secret")
	}

	resp = f.svc.Elevate("elevate privileges, password: super-secret")
	if !resp.Success {
		t.Errorf("expected success for correct secret, got %q", resp.Text)
	}
	if !f.svc.Gate().Unlocked() {
		t.Error("expected gate unlocked after successful elevation")
	}
}

// ── Daily report ─────────────────────────────────────────────────────────────

func TestDailyReport_CountsAndTopRooms(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	roomA := "aaaa0000-0000-4000-8000-000000000001"
	roomB := "bbbb0000-0000-4000-8000-000000000002"
	user := "5eed0000-0000-4000-8000-000000000001"

	// 4 messages in roomA, 2 in roomB, all on the requested day.
	for i := 0; i < 4; i++ {
		f.addEvent(t, uid("ev-a", i), roomA, user, "hello", day.Add(time.Duration(i)*time.Hour))
	}
	for i := 0; i < 2; i++ {
		f.addEvent(t, uid("ev-b", i), roomB, user, "hello", day.Add(time.Duration(i)*time.Minute))
	}
	// One message the day before: must not be counted.
	f.addEvent(t, "ev-out", roomA, user, "stale", day.Add(-time.Hour))

	if err := f.rooms.Upsert(ctx, store.Room{ID: roomA, Name: "general"}); err != nil {
		t.Fatalf("upsert room: %v", err)
	}

	resp := f.svc.DailyReport(ctx, "global report for 2026-03-10")
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Text)
	}

	report, ok := resp.Data.(types.DailyReport)
	if !ok {
		t.Fatalf("expected DailyReport payload, got %T", resp.Data)
	}
	if report.Date != "2026-03-10" {
		t.Errorf("expected date 2026-03-10, got %q", report.Date)
	}
	if report.TotalMessages != 6 {
		t.Errorf("expected 6 messages, got %d", report.TotalMessages)
	}
	if report.TotalRooms != 2 {
		t.Errorf("expected 2 rooms, got %d", report.TotalRooms)
	}
	if len(report.TopRooms) != 2 {
		t.Fatalf("expected 2 top rooms, got %d", len(report.TopRooms))
	}
	if report.TopRooms[0].RoomID != roomA || report.TopRooms[0].Count != 4 {
		t.Errorf("expected roomA with 4 first, got %+v", report.TopRooms[0])
	}
	if report.TopRooms[0].RoomName != "general" {
		t.Errorf("expected resolved name, got %q", report.TopRooms[0].RoomName)
	}
	// roomB has no record: label falls back to the truncated id.
	if !strings.HasPrefix(report.TopRooms[1].RoomName, "Room bbbb0000") {
		t.Errorf("expected fallback label for roomB, got %q", report.TopRooms[1].RoomName)
	}
}

func TestDailyReport_EqualCounts_TieBreakOnRoomID(t *testing.T) {
	f := newFixture(t, true)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	user := "5eed0000-0000-4000-8000-000000000001"

	// roomZ observed first but ids sort the other way.
	roomZ := "zzzz0000-0000-4000-8000-000000000001"
	roomA := "aaaa0000-0000-4000-8000-000000000001"
	f.addEvent(t, "ev-z", roomZ, user, "one", day.Add(2*time.Hour))
	f.addEvent(t, "ev-a", roomA, user, "one", day.Add(1*time.Hour))

	resp := f.svc.DailyReport(context.Background(), "report for 2026-03-10")
	report := resp.Data.(types.DailyReport)
	if len(report.TopRooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(report.TopRooms))
	}
	if report.TopRooms[0].RoomID != roomA {
		t.Errorf("expected ascending-id tie-break, got %q first", report.TopRooms[0].RoomID)
	}
}

func TestDailyReport_EmptyDay(t *testing.T) {
	f := newFixture(t, true)

	resp := f.svc.DailyReport(context.Background(), "report for 2026-03-10")
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "No activity found") {
		t.Errorf("expected no-activity text, got %q", resp.Text)
	}
}

// ── Search ───────────────────────────────────────────────────────────────────

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t, true)
	now := time.Now().UTC()
	room := "aaaa0000-0000-4000-8000-000000000001"
	user := "5eed0000-0000-4000-8000-000000000001"

	f.addEvent(t, "ev-1", room, user, "We have a Production Outage on the API", now.Add(-2*time.Minute))
	f.addEvent(t, "ev-2", room, user, "that tweet caused real outrage", now.Add(-1*time.Minute))

	resp := f.svc.SearchMessages(context.Background(), "search all messages for outage")
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Text)
	}

	results := resp.Data.(types.SearchResults)
	if results.TotalResults != 1 {
		t.Fatalf("expected exactly 1 match, got %d", results.TotalResults)
	}
	if results.Results[0].ID != "ev-1" {
		t.Errorf("expected ev-1 to match, got %q", results.Results[0].ID)
	}
}

func TestSearch_NewestFirst(t *testing.T) {
	f := newFixture(t, true)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	room := "aaaa0000-0000-4000-8000-000000000001"
	user := "5eed0000-0000-4000-8000-000000000001"

	f.addEvent(t, "ev-old", room, user, "deploy window opens", base)
	f.addEvent(t, "ev-new", room, user, "deploy finished", base.Add(time.Hour))

	resp := f.svc.SearchMessages(context.Background(), "search all messages for deploy")
	results := resp.Data.(types.SearchResults)
	if len(results.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results.Results))
	}
	if results.Results[0].ID != "ev-new" {
		t.Errorf("expected newest first, got %q", results.Results[0].ID)
	}
}

func TestSearch_NoMatches_Success(t *testing.T) {
	f := newFixture(t, true)

	resp := f.svc.SearchMessages(context.Background(), "search all messages for unicorns")
	if !resp.Success {
		t.Fatalf("expected success for zero matches, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "No messages found") {
		t.Errorf("expected no-matches text, got %q", resp.Text)
	}
}

func TestSearch_MissingQuery_Guidance(t *testing.T) {
	f := newFixture(t, true)

	resp := f.svc.SearchMessages(context.Background(), "search")
	if resp.Success {
		t.Error("expected failure when no query could be extracted")
	}
	if !strings.Contains(resp.Text, "specify what to search for") {
		t.Errorf("expected usage hint, got %q", resp.Text)
	}
}

func TestSearch_PreviewTruncation(t *testing.T) {
	f := newFixture(t, true)
	now := time.Now().UTC()
	room := "aaaa0000-0000-4000-8000-000000000001"
	user := "5eed0000-0000-4000-8000-000000000001"

	long := strings.Repeat("x", 150)
	short := strings.Repeat("y", 50)
	f.addEvent(t, "ev-long", room, user, long, now.Add(-time.Minute))
	f.addEvent(t, "ev-short", room, user, short, now)

	resp := f.svc.SearchMessages(context.Background(), "search all messages for "+`"`+"xxx"+`"`)
	want := strings.Repeat("x", 100) + "..."
	if !strings.Contains(resp.Text, want) {
		t.Error("expected 100-char preview followed by the ellipsis marker")
	}
	if strings.Contains(resp.Text, strings.Repeat("x", 101)) {
		t.Error("expected preview capped at exactly 100 characters")
	}

	resp = f.svc.SearchMessages(context.Background(), "search all messages for yyy")
	if !strings.Contains(resp.Text, short) {
		t.Error("expected short message rendered in full")
	}
	if strings.Contains(resp.Text, short+"...") {
		t.Error("expected no ellipsis marker for an untruncated message")
	}
}

// ── User audit ───────────────────────────────────────────────────────────────

func TestUserAudit_NoActivity_Success(t *testing.T) {
	f := newFixture(t, true)

	resp := f.svc.UserAudit(context.Background(), "audit user deadbeef-0000")
	if !resp.Success {
		t.Fatalf("expected success for zero activity, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "No activity found") {
		t.Errorf("expected no-activity text, got %q", resp.Text)
	}
}

func TestUserAudit_Report(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	target := "5eed0000-0000-4000-8000-000000000001"
	other := "5eed0000-0000-4000-8000-000000000002"
	roomA := "aaaa0000-0000-4000-8000-000000000001"
	roomB := "bbbb0000-0000-4000-8000-000000000002"
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	f.addEvent(t, "ev-1", roomA, target, "first message", base)
	f.addEvent(t, "ev-2", roomA, target, "second message", base.Add(time.Hour))
	f.addEvent(t, "ev-3", roomB, target, "third message", base.Add(2*time.Hour))
	f.addEvent(t, "ev-4", roomA, other, "not the target", base.Add(3*time.Hour))

	if err := f.entities.Upsert(ctx, store.Entity{ID: target, Names: []string{"Alice", "alice_w"}}); err != nil {
		t.Fatalf("upsert entity: %v", err)
	}
	if err := f.rooms.Upsert(ctx, store.Room{ID: roomA, Name: "general"}); err != nil {
		t.Fatalf("upsert room: %v", err)
	}

	resp := f.svc.UserAudit(ctx, "audit user "+target)
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Text)
	}

	audit := resp.Data.(types.UserAudit)
	if audit.TotalMessages != 3 {
		t.Errorf("expected 3 messages, got %d", audit.TotalMessages)
	}
	if audit.FirstSeen != base.Format(time.RFC3339) {
		t.Errorf("expected firstSeen %s, got %s", base.Format(time.RFC3339), audit.FirstSeen)
	}
	if audit.LastSeen != base.Add(2*time.Hour).Format(time.RFC3339) {
		t.Errorf("expected lastSeen %s, got %s", base.Add(2*time.Hour).Format(time.RFC3339), audit.LastSeen)
	}
	if len(audit.RoomActivity) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(audit.RoomActivity))
	}
	if audit.RoomActivity[0].RoomID != roomA || audit.RoomActivity[0].Count != 2 {
		t.Errorf("expected roomA with 2 first, got %+v", audit.RoomActivity[0])
	}
	if !strings.Contains(resp.Text, "Alice, alice_w") {
		t.Errorf("expected joined names in report, got %q", resp.Text)
	}
}

// ── Rosters ──────────────────────────────────────────────────────────────────

func TestRoomRoster_ListsAndOverflows(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	user := "5eed0000-0000-4000-8000-000000000001"
	now := time.Now().UTC()

	for i := 0; i < 25; i++ {
		id := uid("room", i)
		f.addEvent(t, uid("ev", i), id, user, "hi", now.Add(time.Duration(-i)*time.Minute))
		if err := f.rooms.Upsert(ctx, store.Room{ID: id, Name: uid("name", i), Source: "discord"}); err != nil {
			t.Fatalf("upsert room: %v", err)
		}
	}

	resp := f.svc.RoomRoster(ctx)
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Text)
	}

	roster := resp.Data.(types.RoomRoster)
	if roster.TotalRooms != 25 {
		t.Errorf("expected 25 rooms, got %d", roster.TotalRooms)
	}
	if !strings.Contains(resp.Text, "... and 5 more rooms.") {
		t.Errorf("expected overflow line, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Source: discord") {
		t.Errorf("expected source lines, got %q", resp.Text)
	}
}

func TestUserRoster_ExcludesAgent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	room := "aaaa0000-0000-4000-8000-000000000001"
	user := "5eed0000-0000-4000-8000-000000000001"
	now := time.Now().UTC()

	f.addEvent(t, "ev-1", room, user, "hi", now)
	f.addEvent(t, "ev-2", room, testAgentID, "agent reply", now.Add(time.Second))

	if err := f.entities.Upsert(ctx, store.Entity{ID: user, Names: []string{"Alice"}}); err != nil {
		t.Fatalf("upsert entity: %v", err)
	}
	if err := f.entities.Upsert(ctx, store.Entity{ID: testAgentID, Names: []string{"Cardea"}}); err != nil {
		t.Fatalf("upsert entity: %v", err)
	}

	resp := f.svc.UserRoster(ctx)
	roster := resp.Data.(types.UserRoster)
	if roster.TotalUsers != 1 {
		t.Fatalf("expected the agent excluded, got %d users", roster.TotalUsers)
	}
	if roster.Users[0].ID != user {
		t.Errorf("expected %q, got %q", user, roster.Users[0].ID)
	}
	if !strings.Contains(resp.Text, "Alice") {
		t.Errorf("expected display name in text, got %q", resp.Text)
	}
}

func TestRoomRoster_Empty(t *testing.T) {
	f := newFixture(t, true)

	resp := f.svc.RoomRoster(context.Background())
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "No rooms found") {
		t.Errorf("expected empty-roster text, got %q", resp.Text)
	}
}

// ── Global context ───────────────────────────────────────────────────────────

func TestGlobalContext_Digest(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	user := "5eed0000-0000-4000-8000-000000000001"
	room := "aaaa0000-0000-4000-8000-000000000001"

	// 8 messages in one room: only 5 lines rendered plus an overflow note.
	for i := 0; i < 8; i++ {
		f.addEvent(t, uid("ev", i), room, user, uid("message", i), base.Add(time.Duration(i)*time.Minute))
	}
	if err := f.rooms.Upsert(ctx, store.Room{ID: room, Name: "general"}); err != nil {
		t.Fatalf("upsert room: %v", err)
	}

	resp := f.svc.GlobalContext(ctx)
	if !resp.Success {
		t.Fatal("expected success")
	}

	data := resp.Data.(types.GlobalContext)
	if data.MessageCount != 8 || data.RoomCount != 1 {
		t.Errorf("expected 8 messages / 1 room, got %+v", data)
	}
	if !strings.Contains(resp.Text, "=== general (8 messages) ===") {
		t.Errorf("expected room header, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "... and 3 more messages") {
		t.Errorf("expected per-room overflow, got %q", resp.Text)
	}
}

func TestGlobalContext_NoEvents(t *testing.T) {
	f := newFixture(t, true)

	resp := f.svc.GlobalContext(context.Background())
	if !resp.Success {
		t.Fatal("expected success")
	}
	if !strings.Contains(resp.Text, "No recent messages") {
		t.Errorf("expected empty-window text, got %q", resp.Text)
	}
}

// uid builds a readable unique id for fixtures.
func uid(prefix string, i int) string {
	return fmt.Sprintf("%s-%03d", prefix, i)
}
