package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lodgeguard/lodgeguard/internal/alert"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindUnresolved(ctx context.Context, orgID string, typ alert.Type) (*alert.Alert, error) {
	query := `
		SELECT id, org_id, type, severity, message, created_at, resolved_at, resolution_note
		FROM alerts
		WHERE org_id = $1 AND type = $2 AND resolved_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var a alert.Alert

	var typeStr, severityStr string

	var note sql.NullString

	err := s.db.QueryRowContext(ctx, query, orgID, typ).Scan(
		&a.ID, &a.OrgID, &typeStr, &severityStr, &a.Message,
		&a.CreatedAt, &a.ResolvedAt, &note,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, alert.ErrNotFound
		}

		return nil, fmt.Errorf("finding unresolved alert: %w", err)
	}

	a.Type = alert.Type(typeStr)
	a.Severity = alert.Severity(severityStr)

	if note.Valid {
		a.ResolutionNote = &note.String
	}

	return &a, nil
}

func (s *Store) CreateAlert(ctx context.Context, a *alert.Alert) error {
	query := `
		INSERT INTO alerts (org_id, type, severity, message, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.OrgID, a.Type, a.Severity, a.Message,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating alert: %w", err)
	}

	return nil
}

func (s *Store) UpdateMessage(ctx context.Context, id uuid.UUID, message string) error {
	query := `UPDATE alerts SET message = $2 WHERE id = $1 AND resolved_at IS NULL`

	if _, err := s.db.ExecContext(ctx, query, id, message); err != nil {
		return fmt.Errorf("updating alert message: %w", err)
	}

	return nil
}

func (s *Store) Resolve(ctx context.Context, id uuid.UUID, note string) error {
	query := `
		UPDATE alerts
		SET resolved_at = NOW(), resolution_note = $2
		WHERE id = $1 AND resolved_at IS NULL
	`

	if _, err := s.db.ExecContext(ctx, query, id, note); err != nil {
		return fmt.Errorf("resolving alert: %w", err)
	}

	return nil
}
