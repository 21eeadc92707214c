package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/BrandonDHaskell/Cardea/internal/db"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
)

type EventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEventStore(db *sql.DB, writer *dbpkg.Worker) *EventStore {
	return &EventStore{db: db, writer: writer}
}

func (s *EventStore) Append(ctx context.Context, ev store.Event) error {
	if strings.TrimSpace(ev.ID) == "" {
		return fmt.Errorf("Append: event id is required")
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	createdMs := ev.CreatedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO events(
  event_id, agent_id, room_id, entity_id, text, created_at_ms
) VALUES (?, ?, ?, ?, ?, ?);
`, ev.ID, ev.AgentID, ev.RoomID, ev.EntityID, ev.Text, createdMs); err != nil {
			return fmt.Errorf("Append insert: %w", err)
		}
		return nil
	})
}

// List returns events newest-first.  The query is assembled from the
// optional bounds in q; every caller passes at least a count or a range.
func (s *EventStore) List(ctx context.Context, q store.EventQuery) ([]store.Event, error) {
	var (
		where []string
		args  []any
	)
	if q.AgentID != "" {
		where = append(where, "agent_id = ?")
		args = append(args, q.AgentID)
	}
	if q.Start != nil {
		where = append(where, "created_at_ms >= ?")
		args = append(args, q.Start.UTC().UnixMilli())
	}
	if q.End != nil {
		where = append(where, "created_at_ms < ?")
		args = append(args, q.End.UTC().UnixMilli())
	}

	query := "SELECT event_id, agent_id, room_id, entity_id, text, created_at_ms FROM events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at_ms DESC, event_id"
	if q.Count > 0 {
		query += " LIMIT ?"
		args = append(args, q.Count)
	}

	rows, err := s.db.QueryContext(ctx, query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []store.Event
	for rows.Next() {
		var (
			ev        store.Event
			createdMs int64
		)
		if err := rows.Scan(&ev.ID, &ev.AgentID, &ev.RoomID, &ev.EntityID, &ev.Text, &createdMs); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		ev.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List rows: %w", err)
	}
	return out, nil
}

// PruneOlderThan deletes event rows with created_at_ms before the given
// cutoff time.  Returns the number of rows deleted.
//
// Uses the idx_events_time index for an efficient range scan.
func (s *EventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM events
WHERE created_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
