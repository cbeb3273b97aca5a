package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, org_id, amount, source, actor_id, idempotency_key, created_at, applied_at, transfer_id
func scanContribution(s scanner) (*contribution.Contribution, error) {
	var c contribution.Contribution

	var amount string

	var sourceStr string

	var transferID sql.NullString

	if err := s.Scan(
		&c.ID, &c.OrgID, &amount, &sourceStr, &c.ActorID, &c.IdempotencyKey,
		&c.CreatedAt, &c.AppliedAt, &transferID,
	); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parsing contribution amount: %w", err)
	}

	c.Amount = parsed
	c.Source = contribution.Source(sourceStr)

	if transferID.Valid {
		c.TransferID = &transferID.String
	}

	return &c, nil
}

const selectContributionColumns = `
	id, org_id, amount::text, source, actor_id, idempotency_key, created_at, applied_at, transfer_id
`

func (s *Store) CreateContribution(ctx context.Context, c *contribution.Contribution) error {
	query := `
		INSERT INTO contributions (org_id, amount, source, actor_id, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.OrgID,
		c.Amount.String(),
		c.Source,
		c.ActorID,
		c.IdempotencyKey,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating contribution: %w", err)
	}

	return nil
}

func (s *Store) ListUnapplied(ctx context.Context, orgID string) ([]*contribution.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + `
		FROM contributions
		WHERE org_id = $1 AND applied_at IS NULL
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing unapplied contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*contribution.Contribution

	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}

		contributions = append(contributions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributions: %w", err)
	}

	return contributions, nil
}

func (s *Store) MarkApplied(ctx context.Context, ids []uuid.UUID, transferID string, appliedAt time.Time) error {
	query := `
		UPDATE contributions
		SET applied_at = $2, transfer_id = $3
		WHERE id = ANY($1) AND applied_at IS NULL
	`

	if _, err := s.db.ExecContext(ctx, query, ids, appliedAt, transferID); err != nil {
		return fmt.Errorf("marking contributions applied: %w", err)
	}

	return nil
}

func (s *Store) SumAppliedBySource(ctx context.Context, orgID string) (map[contribution.Source]decimal.Decimal, error) {
	query := `
		SELECT source, COALESCE(SUM(amount), 0)::text
		FROM contributions
		WHERE org_id = $1 AND applied_at IS NOT NULL
		GROUP BY source
	`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("summing applied contributions: %w", err)
	}
	defer rows.Close()

	totals := make(map[contribution.Source]decimal.Decimal)

	for rows.Next() {
		var sourceStr, amount string
		if err := rows.Scan(&sourceStr, &amount); err != nil {
			return nil, fmt.Errorf("scanning contribution total: %w", err)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing contribution total: %w", err)
		}

		totals[contribution.Source(sourceStr)] = parsed
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contribution totals: %w", err)
	}

	return totals, nil
}
