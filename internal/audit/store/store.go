package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lodgeguard/lodgeguard/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateEntry(ctx context.Context, entry *audit.Entry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("encoding audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_entries (org_id, actor_id, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		entry.OrgID,
		entry.ActorID,
		entry.Action,
		metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating audit entry: %w", err)
	}

	return nil
}
