package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeedDevOptions struct {
	// AgentID stamps the seeded events so dev queries scoped to the
	// configured agent can see them.
	AgentID string
}

// SeedDev inserts a small fixture (two rooms, two users, a handful of
// messages) so a fresh dev database has something to report on.  It is a
// no-op once the event log is non-empty, so repeated dev boots don't pile
// up duplicate fixtures.
func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events;`).Scan(&existing); err != nil {
		return fmt.Errorf("seed count events: %w", err)
	}
	if existing > 0 {
		return nil
	}

	now := time.Now().UTC().UnixMilli()

	rooms := []struct{ id, name, source string }{
		{"c0ffee00-0000-4000-8000-000000000001", "general", "dev"},
		{"c0ffee00-0000-4000-8000-000000000002", "support", "dev"},
	}
	for _, r := range rooms {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO rooms(room_id, name, source, type, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, 'GROUP', ?, ?);`, r.id, r.name, r.source, now, now); err != nil {
			return fmt.Errorf("seed room %s: %w", r.name, err)
		}
	}

	users := []struct{ id, names string }{
		{"5eed0000-0000-4000-8000-000000000001", `["Alice"]`},
		{"5eed0000-0000-4000-8000-000000000002", `["Bob"]`},
	}
	for _, u := range users {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO entities(entity_id, names, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?);`, u.id, u.names, now, now); err != nil {
			return fmt.Errorf("seed entity %s: %w", u.id, err)
		}
	}

	msgs := []struct {
		room, user, text string
		ageMin           int64
	}{
		{rooms[0].id, users[0].id, "morning everyone", 120},
		{rooms[0].id, users[1].id, "anyone looked at the deploy?", 90},
		{rooms[1].id, users[0].id, "customer reports a login loop", 45},
		{rooms[1].id, users[1].id, "taking a look now", 40},
	}
	for _, m := range msgs {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO events(event_id, agent_id, room_id, entity_id, text, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?);`,
			uuid.NewString(), opt.AgentID, m.room, m.user, m.text, now-m.ageMin*60_000,
		); err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
	}

	return nil
}
