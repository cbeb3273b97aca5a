package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/cycle"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, org_id, period_start, period_end,
// withholding_required, consumption_required, withholding_secured,
// consumption_secured, overall_status, lodged_at
func scanCycle(s scanner) (*cycle.Cycle, error) {
	var c cycle.Cycle

	var statusStr string

	var wReq, cReq, wSec, cSec string

	if err := s.Scan(
		&c.ID, &c.OrgID, &c.PeriodStart, &c.PeriodEnd,
		&wReq, &cReq, &wSec, &cSec,
		&statusStr, &c.LodgedAt,
	); err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{wReq, &c.WithholdingRequired},
		{cReq, &c.ConsumptionRequired},
		{wSec, &c.WithholdingSecured},
		{cSec, &c.ConsumptionSecured},
	} {
		parsed, err := decimal.NewFromString(pair.raw)
		if err != nil {
			return nil, fmt.Errorf("parsing cycle amount: %w", err)
		}

		*pair.dest = parsed
	}

	c.OverallStatus = cycle.Status(statusStr)

	return &c, nil
}

const selectCycleColumns = `
	id, org_id, period_start, period_end,
	withholding_required::text, consumption_required::text,
	withholding_secured::text, consumption_secured::text,
	overall_status, lodged_at
`

func (s *Store) ListUnlodged(ctx context.Context, orgID string) ([]*cycle.Cycle, error) {
	query := `SELECT ` + selectCycleColumns + `
		FROM lodgment_cycles
		WHERE org_id = $1 AND lodged_at IS NULL
		ORDER BY period_start ASC`

	return s.list(ctx, query, orgID)
}

func (s *Store) ListRecent(ctx context.Context, orgID string, limit int) ([]*cycle.Cycle, error) {
	query := `SELECT ` + selectCycleColumns + `
		FROM lodgment_cycles
		WHERE org_id = $1
		ORDER BY period_end DESC
		LIMIT $2`

	return s.list(ctx, query, orgID, limit)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*cycle.Cycle, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*cycle.Cycle

	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cycle: %w", err)
		}

		cycles = append(cycles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycles: %w", err)
	}

	return cycles, nil
}

func (s *Store) UpdateAllocation(ctx context.Context, id uuid.UUID, withholdingSecured, consumptionSecured decimal.Decimal, status cycle.Status) error {
	query := `
		UPDATE lodgment_cycles
		SET withholding_secured = $2, consumption_secured = $3, overall_status = $4
		WHERE id = $1 AND lodged_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query, id,
		withholdingSecured.String(), consumptionSecured.String(), status)
	if err != nil {
		return fmt.Errorf("updating cycle allocation: %w", err)
	}

	return nil
}
