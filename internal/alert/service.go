package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/event"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=alert
type Repository interface {
	FindUnresolved(ctx context.Context, orgID string, typ Type) (*Alert, error)
	CreateAlert(ctx context.Context, a *Alert) error
	UpdateMessage(ctx context.Context, id uuid.UUID, message string) error
	Resolve(ctx context.Context, id uuid.UUID, note string) error
}

type Service struct {
	repo Repository
	bus  event.Publisher
}

func NewService(repo Repository, bus event.Publisher) *Service {
	return &Service{repo: repo, bus: bus}
}

// Sync reconciles the unresolved alert for (org, type) against the current
// shortfall: a positive shortfall refreshes or raises the alert, a cleared
// shortfall resolves it. Never creates a second unresolved alert for the pair.
func (s *Service) Sync(ctx context.Context, orgID string, typ Type, shortfall decimal.Decimal, message string) error {
	existing, err := s.repo.FindUnresolved(ctx, orgID, typ)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("finding unresolved alert: %w", err)
	}

	if shortfall.IsPositive() {
		if existing != nil {
			if err := s.repo.UpdateMessage(ctx, existing.ID, message); err != nil {
				return fmt.Errorf("refreshing alert: %w", err)
			}

			return nil
		}

		a := &Alert{
			OrgID:    orgID,
			Type:     typ,
			Severity: SeverityHigh,
			Message:  message,
		}

		if err := s.repo.CreateAlert(ctx, a); err != nil {
			return fmt.Errorf("raising alert: %w", err)
		}

		event.Emit(s.bus, event.SubjectAlertRaised, map[string]any{
			"org_id":    orgID,
			"type":      string(typ),
			"shortfall": shortfall.String(),
		})

		return nil
	}

	if existing == nil {
		return nil
	}

	if err := s.repo.Resolve(ctx, existing.ID, "Auto-resolved by cycle orchestrator"); err != nil {
		return fmt.Errorf("resolving alert: %w", err)
	}

	event.Emit(s.bus, event.SubjectAlertResolved, map[string]any{
		"org_id": orgID,
		"type":   string(typ),
	})

	return nil
}
