package contribution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/idempotency"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contribution
type Repository interface {
	CreateContribution(ctx context.Context, c *Contribution) error
	ListUnapplied(ctx context.Context, orgID string) ([]*Contribution, error)
	MarkApplied(ctx context.Context, ids []uuid.UUID, transferID string, appliedAt time.Time) error
	SumAppliedBySource(ctx context.Context, orgID string) (map[Source]decimal.Decimal, error)
}

type Service struct {
	repo  Repository
	guard *idempotency.Guard
}

func NewService(repo Repository, guard *idempotency.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

type RecordParams struct {
	OrgID          string
	Amount         decimal.Decimal
	ActorID        string
	IdempotencyKey string
	Payload        any
}

// RecordPayroll captures a payroll withholding contribution.
func (s *Service) RecordPayroll(ctx context.Context, params RecordParams) error {
	return s.record(ctx, params, SourcePayroll, "payrollContribution")
}

// RecordPOS captures a point-of-sale consumption-tax contribution.
func (s *Service) RecordPOS(ctx context.Context, params RecordParams) error {
	return s.record(ctx, params, SourcePOS, "posTransaction")
}

func (s *Service) record(ctx context.Context, params RecordParams, source Source, resource string) error {
	if !params.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	req := idempotency.Request{
		OrgID:    params.OrgID,
		Key:      params.IdempotencyKey,
		ActorID:  params.ActorID,
		Resource: resource,
		Payload: map[string]any{
			"amount":  params.Amount.String(),
			"type":    string(source),
			"payload": params.Payload,
		},
	}

	return s.guard.Execute(ctx, req, func(ctx context.Context, key string) (string, error) {
		c := &Contribution{
			OrgID:          params.OrgID,
			Amount:         params.Amount,
			Source:         source,
			ActorID:        params.ActorID,
			IdempotencyKey: key,
		}

		if err := s.repo.CreateContribution(ctx, c); err != nil {
			return "", fmt.Errorf("creating contribution: %w", err)
		}

		return c.ID.String(), nil
	})
}

// ListUnapplied returns contributions not yet secured, oldest first.
func (s *Service) ListUnapplied(ctx context.Context, orgID string) ([]*Contribution, error) {
	return s.repo.ListUnapplied(ctx, orgID)
}

// MarkApplied stamps contributions with the transfer that secured them.
func (s *Service) MarkApplied(ctx context.Context, ids []uuid.UUID, transferID string, appliedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	return s.repo.MarkApplied(ctx, ids, transferID, appliedAt)
}

// Summarize reports how much applied revenue each tax stream has secured.
func (s *Service) Summarize(ctx context.Context, orgID string) (*Summary, error) {
	totals, err := s.repo.SumAppliedBySource(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("summarizing contributions: %w", err)
	}

	return &Summary{
		WithholdingSecured: totals[SourcePayroll],
		ConsumptionSecured: totals[SourcePOS],
	}, nil
}
