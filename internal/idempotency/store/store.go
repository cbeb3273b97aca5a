package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lodgeguard/lodgeguard/internal/idempotency"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertRecord relies on the unique (org_id, key) index so that two
// concurrent attempts with the same key result in exactly one row.
func (s *Store) InsertRecord(ctx context.Context, record *idempotency.Record) error {
	query := `
		INSERT INTO idempotency_records (org_id, key, actor_id, resource, request_hash, first_seen_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, first_seen_at
	`

	err := s.db.QueryRowContext(ctx, query,
		record.OrgID,
		record.Key,
		record.ActorID,
		record.Resource,
		record.RequestHash,
	).Scan(&record.ID, &record.FirstSeenAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return idempotency.ErrDuplicate
		}

		return fmt.Errorf("inserting idempotency record: %w", err)
	}

	return nil
}

func (s *Store) GetRecord(ctx context.Context, orgID, key string) (*idempotency.Record, error) {
	query := `
		SELECT id, org_id, key, actor_id, resource, resource_id, request_hash, first_seen_at
		FROM idempotency_records
		WHERE org_id = $1 AND key = $2
	`

	var record idempotency.Record

	var resourceID sql.NullString

	err := s.db.QueryRowContext(ctx, query, orgID, key).Scan(
		&record.ID, &record.OrgID, &record.Key, &record.ActorID,
		&record.Resource, &resourceID, &record.RequestHash, &record.FirstSeenAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting idempotency record: %w", err)
	}

	if resourceID.Valid {
		record.ResourceID = &resourceID.String
	}

	return &record, nil
}

func (s *Store) SetResult(ctx context.Context, orgID, key, resource, resourceID string) error {
	query := `
		UPDATE idempotency_records
		SET resource = $3, resource_id = $4
		WHERE org_id = $1 AND key = $2
	`

	if _, err := s.db.ExecContext(ctx, query, orgID, key, resource, resourceID); err != nil {
		return fmt.Errorf("updating idempotency record: %w", err)
	}

	return nil
}
