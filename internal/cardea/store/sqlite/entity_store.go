package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/BrandonDHaskell/Cardea/internal/db"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
)

type EntityStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEntityStore(db *sql.DB, writer *dbpkg.Worker) *EntityStore {
	return &EntityStore{db: db, writer: writer}
}

func (s *EntityStore) Upsert(ctx context.Context, e store.Entity) error {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return nil
	}

	names := e.Names
	if names == nil {
		names = []string{}
	}
	namesJSON, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("Upsert marshal names: %w", err)
	}

	var metaJSON any
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("Upsert marshal metadata: %w", err)
		}
		metaJSON = string(b)
	}

	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO entities(entity_id, names, metadata, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(entity_id) DO UPDATE SET
  names         = excluded.names,
  metadata      = COALESCE(excluded.metadata, entities.metadata),
  updated_at_ms = excluded.updated_at_ms;
`, id, string(namesJSON), metaJSON, nowMs, nowMs); err != nil {
			return fmt.Errorf("Upsert entity %s: %w", id, err)
		}
		return nil
	})
}

// ByIDs resolves entities with a single IN-clause query.  Unknown ids are
// silently omitted; result order follows the requested id order.
func (s *EntityStore) ByIDs(ctx context.Context, ids []string) ([]store.Entity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT entity_id, names, metadata FROM entities WHERE entity_id IN (%s);",
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

	byID := make(map[string]store.Entity, len(ids))
	for rows.Next() {
		var (
			e         store.Entity
			namesJSON string
			metaJSON  sql.NullString
		)
		if err := rows.Scan(&e.ID, &namesJSON, &metaJSON); err != nil {
			return nil, fmt.Errorf("ByIDs scan: %w", err)
		}
		if err := json.Unmarshal([]byte(namesJSON), &e.Names); err != nil {
			return nil, fmt.Errorf("ByIDs unmarshal names for %s: %w", e.ID, err)
		}
		if metaJSON.Valid && metaJSON.String != "" {
			if err := json.Unmarshal([]byte(metaJSON.String), &e.Metadata); err != nil {
				return nil, fmt.Errorf("ByIDs unmarshal metadata for %s: %w", e.ID, err)
			}
		}
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ByIDs rows: %w", err)
	}

	out := make([]store.Entity, 0, len(byID))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
