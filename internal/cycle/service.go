package cycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/alert"
	"github.com/lodgeguard/lodgeguard/internal/audit"
	"github.com/lodgeguard/lodgeguard/internal/event"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

const systemActor = "system"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cycle
type Repository interface {
	ListUnlodged(ctx context.Context, orgID string) ([]*Cycle, error)
	ListRecent(ctx context.Context, orgID string, limit int) ([]*Cycle, error)
	UpdateAllocation(ctx context.Context, id uuid.UUID, withholdingSecured, consumptionSecured decimal.Decimal, status Status) error
}

// Service walks an org's un-lodged cycles oldest-first and allocates the
// designated-account pool across them.
type Service struct {
	repo    Repository
	ledger  *ledger.Service
	alerts  *alert.Service
	auditor audit.Logger
	bus     event.Publisher
	locker  Locker
}

func NewService(repo Repository, ldg *ledger.Service, alerts *alert.Service, auditor audit.Logger, bus event.Publisher, locker Locker) *Service {
	return &Service{
		repo:    repo,
		ledger:  ldg,
		alerts:  alerts,
		auditor: auditor,
		bus:     bus,
		locker:  locker,
	}
}

// Summary reports the outcome of one orchestration pass.
type Summary struct {
	OrgID           string
	CyclesEvaluated int
	Ready           int
	Blocked         int
}

// Orchestrate runs a FIFO waterfall over the org's un-lodged cycles: each
// cycle secures at most what the pool still holds, then the pool shrinks by
// the secured amount before the next cycle is evaluated. The whole pass runs
// under a per-org lock against one balance snapshot.
func (s *Service) Orchestrate(ctx context.Context, orgID string) (*Summary, error) {
	release, err := s.locker.Obtain(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("obtaining orchestration lock for org %s: %w", orgID, err)
	}
	defer release()

	cycles, err := s.repo.ListUnlodged(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing un-lodged cycles: %w", err)
	}

	summary := &Summary{OrgID: orgID}
	if len(cycles) == 0 {
		return summary, nil
	}

	pool, err := s.ledger.PoolBalances(ctx, orgID)
	if err != nil {
		return nil, err
	}

	withholdingPool := pool[ledger.TypeWithholdingBuffer]
	consumptionPool := pool[ledger.TypeConsumptionBuffer]

	for _, c := range cycles {
		withholdingSecured, withholdingShortfall := allocate(c.WithholdingRequired, withholdingPool)
		consumptionSecured, consumptionShortfall := allocate(c.ConsumptionRequired, consumptionPool)

		status := StatusReady
		if withholdingShortfall.IsPositive() || consumptionShortfall.IsPositive() {
			status = StatusBlocked
		}

		if status == StatusReady {
			summary.Ready++
		} else {
			summary.Blocked++
		}

		if err := s.persistAllocation(ctx, c, withholdingSecured, consumptionSecured, status); err != nil {
			return nil, err
		}

		if err := s.syncAlerts(ctx, orgID, c, withholdingShortfall, consumptionShortfall); err != nil {
			return nil, err
		}

		withholdingPool = withholdingPool.Sub(withholdingSecured)
		consumptionPool = consumptionPool.Sub(consumptionSecured)
	}

	summary.CyclesEvaluated = len(cycles)

	return summary, nil
}

// allocate gives a cycle what the pool can still cover.
func allocate(required, pool decimal.Decimal) (secured, shortfall decimal.Decimal) {
	available := decimal.Max(decimal.Zero, pool)
	secured = decimal.Min(required, available)
	shortfall = required.Sub(secured)

	return secured, shortfall
}

func (s *Service) persistAllocation(ctx context.Context, c *Cycle, withholdingSecured, consumptionSecured decimal.Decimal, status Status) error {
	unchanged := c.WithholdingSecured.Equal(withholdingSecured) &&
		c.ConsumptionSecured.Equal(consumptionSecured) &&
		c.OverallStatus == status

	if unchanged {
		return nil
	}

	if err := s.repo.UpdateAllocation(ctx, c.ID, withholdingSecured, consumptionSecured, status); err != nil {
		return fmt.Errorf("updating cycle %s: %w", c.ID, err)
	}

	if err := s.auditor.Log(ctx, audit.Entry{
		OrgID:   c.OrgID,
		ActorID: systemActor,
		Action:  "cycle.orchestrated",
		Metadata: map[string]any{
			"cycle_id":            c.ID.String(),
			"status":              string(status),
			"withholding_secured": withholdingSecured.String(),
			"consumption_secured": consumptionSecured.String(),
		},
	}); err != nil {
		return err
	}

	if c.OverallStatus != status {
		event.Emit(s.bus, event.SubjectCycleStatusChanged, map[string]any{
			"org_id":   c.OrgID,
			"cycle_id": c.ID.String(),
			"from":     string(c.OverallStatus),
			"to":       string(status),
		})
	}

	c.WithholdingSecured = withholdingSecured
	c.ConsumptionSecured = consumptionSecured
	c.OverallStatus = status

	return nil
}

func (s *Service) syncAlerts(ctx context.Context, orgID string, c *Cycle, withholdingShortfall, consumptionShortfall decimal.Decimal) error {
	withholdingMessage := fmt.Sprintf("Withholding secured %s below required %s.",
		c.WithholdingSecured.StringFixed(2), c.WithholdingRequired.StringFixed(2))
	if err := s.alerts.Sync(ctx, orgID, alert.TypeWithholdingShortfall, withholdingShortfall, withholdingMessage); err != nil {
		return fmt.Errorf("syncing withholding alert: %w", err)
	}

	consumptionMessage := fmt.Sprintf("Consumption tax secured %s below required %s.",
		c.ConsumptionSecured.StringFixed(2), c.ConsumptionRequired.StringFixed(2))
	if err := s.alerts.Sync(ctx, orgID, alert.TypeConsumptionShortfall, consumptionShortfall, consumptionMessage); err != nil {
		return fmt.Errorf("syncing consumption alert: %w", err)
	}

	return nil
}

// ListRecent returns the newest cycles first, for forecasting and dashboards.
func (s *Service) ListRecent(ctx context.Context, orgID string, limit int) ([]*Cycle, error) {
	return s.repo.ListRecent(ctx, orgID, limit)
}
