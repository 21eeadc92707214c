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

type RoomStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewRoomStore(db *sql.DB, writer *dbpkg.Worker) *RoomStore {
	return &RoomStore{db: db, writer: writer}
}

func (s *RoomStore) Upsert(ctx context.Context, r store.Room) error {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return nil
	}
	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO rooms(room_id, name, source, type, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(room_id) DO UPDATE SET
  name          = excluded.name,
  source        = excluded.source,
  type          = excluded.type,
  updated_at_ms = excluded.updated_at_ms;
`, id, nullable(r.Name), nullable(r.Source), nullable(r.Type), nowMs, nowMs); err != nil {
			return fmt.Errorf("Upsert room %s: %w", id, err)
		}
		return nil
	})
}

// ByIDs resolves rooms with a single IN-clause query.  Unknown ids are
// silently omitted; result order follows the requested id order.
func (s *RoomStore) ByIDs(ctx context.Context, ids []string) ([]store.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT room_id, name, source, type FROM rooms WHERE room_id IN (%s);",
		placeholders(len(ids)),
	)
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ByIDs query: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]store.Room, len(ids))
	for rows.Next() {
		var (
			r                  store.Room
			name, source, typ2 sql.NullString
		)
		if err := rows.Scan(&r.ID, &name, &source, &typ2); err != nil {
			return nil, fmt.Errorf("ByIDs scan: %w", err)
		}
		r.Name = name.String
		r.Source = source.String
		r.Type = typ2.String
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ByIDs rows: %w", err)
	}

	out := make([]store.Room, 0, len(byID))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
