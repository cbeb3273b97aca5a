package securing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/banking"
	"github.com/lodgeguard/lodgeguard/internal/contribution"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

const systemActor = "system"

// Service runs scheduled securing passes: it aggregates unapplied
// contributions into elapsed-bucket batches and applies each batch total to
// the designated account matching its revenue stream.
type Service struct {
	contributions *contribution.Service
	ledger        *ledger.Service
	applier       *ledger.Applier
	schedule      Schedule

	now func() time.Time
}

func NewService(contributions *contribution.Service, ldg *ledger.Service, applier *ledger.Applier, schedule Schedule) *Service {
	return &Service{
		contributions: contributions,
		ledger:        ldg,
		applier:       applier,
		schedule:      schedule,
		now:           time.Now,
	}
}

// RunResult summarizes one securing pass.
type RunResult struct {
	BatchesApplied       int
	ContributionsApplied int
	WithholdingSecured   decimal.Decimal
	ConsumptionSecured   decimal.Decimal
}

// Run secures all eligible contributions for an org. Batches are applied
// oldest-first; partner failures in the retryable classes (pending, timeout)
// get a bounded exponential backoff, everything else aborts the pass.
func (s *Service) Run(ctx context.Context, orgID string) (*RunResult, error) {
	entries, err := s.contributions.ListUnapplied(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing unapplied contributions: %w", err)
	}

	batches, err := Aggregate(entries, s.schedule, s.now())
	if err != nil {
		return nil, err
	}

	result := &RunResult{}

	for _, batch := range batches {
		applied, err := s.applyBatch(ctx, orgID, batch)
		if err != nil {
			return nil, fmt.Errorf("applying batch %s/%s: %w",
				batch.Source, batch.BatchStart.Format(time.DateOnly), err)
		}

		result.BatchesApplied++
		result.ContributionsApplied += len(batch.ContributionIDs)

		switch batch.Source {
		case contribution.SourcePayroll:
			result.WithholdingSecured = result.WithholdingSecured.Add(batch.TotalAmount)
		case contribution.SourcePOS:
			result.ConsumptionSecured = result.ConsumptionSecured.Add(batch.TotalAmount)
		}

		slog.Info("secured batch",
			"org_id", orgID,
			"source", batch.Source,
			"batch_start", batch.BatchStart,
			"amount", batch.TotalAmount.String(),
			"transfer_id", applied.TransferID,
		)
	}

	return result, nil
}

func (s *Service) applyBatch(ctx context.Context, orgID string, batch Batch) (*ledger.ApplyResult, error) {
	account, err := s.ledger.Account(ctx, orgID, accountTypeFor(batch.Source))
	if err != nil {
		return nil, err
	}

	var applied *ledger.ApplyResult

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		result, err := s.applier.Apply(ctx, ledger.ApplyParams{
			OrgID:     orgID,
			AccountID: account.ID,
			Amount:    batch.TotalAmount,
			Source:    string(batch.Source),
			ActorID:   systemActor,
		})
		if err != nil {
			if banking.Retryable(err) {
				return retry.RetryableError(err)
			}

			return err
		}

		applied = result

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.contributions.MarkApplied(ctx, batch.ContributionIDs, applied.TransferID.String(), s.now().UTC()); err != nil {
		return nil, fmt.Errorf("marking contributions applied: %w", err)
	}

	return applied, nil
}

func accountTypeFor(source contribution.Source) ledger.AccountType {
	if source == contribution.SourcePayroll {
		return ledger.TypeWithholdingBuffer
	}

	return ledger.TypeConsumptionBuffer
}
