package cycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lodgeguard/lodgeguard/internal/alert"
	"github.com/lodgeguard/lodgeguard/internal/audit"
	"github.com/lodgeguard/lodgeguard/internal/cycle"
	"github.com/lodgeguard/lodgeguard/internal/event"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

const orgID = "org-123"

type fixture struct {
	svc     *cycle.Service
	repo    *cycle.MockRepository
	ledger  *ledger.MockRepository
	alerts  *alert.MockRepository
	auditor *audit.MockLogger
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	repo := cycle.NewMockRepository(ctrl)
	ledgerRepo := ledger.NewMockRepository(ctrl)
	alertRepo := alert.NewMockRepository(ctrl)
	auditor := audit.NewMockLogger(ctrl)

	alerts := alert.NewService(alertRepo, event.Noop{})
	ledgerSvc := ledger.NewService(ledgerRepo, ledger.LocalProvider{}, alerts)

	svc := cycle.NewService(repo, ledgerSvc, alerts, auditor, event.Noop{}, cycle.NewLocalLocker())

	return &fixture{
		svc:     svc,
		repo:    repo,
		ledger:  ledgerRepo,
		alerts:  alertRepo,
		auditor: auditor,
	}
}

func pendingCycle(withholdingRequired, consumptionRequired string, start time.Time) *cycle.Cycle {
	return &cycle.Cycle{
		ID:                  uuid.New(),
		OrgID:               orgID,
		PeriodStart:         start,
		PeriodEnd:           start.AddDate(0, 1, 0),
		WithholdingRequired: decimal.RequireFromString(withholdingRequired),
		ConsumptionRequired: decimal.RequireFromString(consumptionRequired),
		WithholdingSecured:  decimal.Zero,
		ConsumptionSecured:  decimal.Zero,
		OverallStatus:       cycle.StatusPending,
	}
}

func accounts(withholding, consumption string) []*ledger.Account {
	return []*ledger.Account{
		{ID: uuid.New(), OrgID: orgID, Type: ledger.TypeWithholdingBuffer, Balance: decimal.RequireFromString(withholding)},
		{ID: uuid.New(), OrgID: orgID, Type: ledger.TypeConsumptionBuffer, Balance: decimal.RequireFromString(consumption)},
	}
}

func expectNoUnresolvedAlerts(f *fixture, times int) {
	f.alerts.EXPECT().
		FindUnresolved(gomock.Any(), orgID, gomock.Any()).
		Return(nil, alert.ErrNotFound).
		Times(times)
}

func TestService_Orchestrate_WaterfallDecrementsPool(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := pendingCycle("500.00", "200.00", start)
	second := pendingCycle("800.00", "100.00", start.AddDate(0, 1, 0))

	f.repo.EXPECT().ListUnlodged(gomock.Any(), orgID).Return([]*cycle.Cycle{first, second}, nil)
	f.ledger.EXPECT().ListAccounts(gomock.Any(), orgID).Return(accounts("1000.00", "250.00"), nil)

	// First cycle drains 500/200 from the pool, leaving 500/50 for the second.
	f.repo.EXPECT().
		UpdateAllocation(gomock.Any(), first.ID, decimalEq("500.00"), decimalEq("200.00"), cycle.StatusReady).
		Return(nil)
	f.repo.EXPECT().
		UpdateAllocation(gomock.Any(), second.ID, decimalEq("500.00"), decimalEq("50.00"), cycle.StatusBlocked).
		Return(nil)

	f.auditor.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	// Cycle one clears both alert types; cycle two raises both.
	expectNoUnresolvedAlerts(f, 4)
	f.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	summary, err := f.svc.Orchestrate(context.Background(), orgID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.CyclesEvaluated)
	assert.Equal(t, 1, summary.Ready)
	assert.Equal(t, 1, summary.Blocked)
}

func TestService_Orchestrate_NoCyclesSkipsPoolLoad(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().ListUnlodged(gomock.Any(), orgID).Return(nil, nil)

	summary, err := f.svc.Orchestrate(context.Background(), orgID)
	require.NoError(t, err)
	assert.Zero(t, summary.CyclesEvaluated)
}

func TestService_Orchestrate_UnchangedAllocationNotRewritten(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := pendingCycle("500.00", "200.00", start)
	c.WithholdingSecured = decimal.RequireFromString("500.00")
	c.ConsumptionSecured = decimal.RequireFromString("200.00")
	c.OverallStatus = cycle.StatusReady

	f.repo.EXPECT().ListUnlodged(gomock.Any(), orgID).Return([]*cycle.Cycle{c}, nil)
	f.ledger.EXPECT().ListAccounts(gomock.Any(), orgID).Return(accounts("1000.00", "250.00"), nil)

	// No UpdateAllocation, no audit entry: nothing changed.
	expectNoUnresolvedAlerts(f, 2)

	summary, err := f.svc.Orchestrate(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ready)
}

func TestService_Orchestrate_NegativePoolAllocatesNothing(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := pendingCycle("300.00", "100.00", start)

	f.repo.EXPECT().ListUnlodged(gomock.Any(), orgID).Return([]*cycle.Cycle{c}, nil)
	f.ledger.EXPECT().ListAccounts(gomock.Any(), orgID).Return(accounts("-25.00", "0.00"), nil)

	f.repo.EXPECT().
		UpdateAllocation(gomock.Any(), c.ID, decimalEq("0"), decimalEq("0"), cycle.StatusBlocked).
		Return(nil)
	f.auditor.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)

	expectNoUnresolvedAlerts(f, 2)
	f.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	summary, err := f.svc.Orchestrate(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Blocked)
}

type deniedLocker struct{}

func (deniedLocker) Obtain(context.Context, string) (func(), error) {
	return nil, cycle.ErrLocked
}

func TestService_Orchestrate_LockHeld(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := cycle.NewMockRepository(ctrl)

	svc := cycle.NewService(repo, nil, nil, nil, event.Noop{}, deniedLocker{})

	_, err := svc.Orchestrate(context.Background(), orgID)
	assert.ErrorIs(t, err, cycle.ErrLocked)
}

func TestService_ListRecent(t *testing.T) {
	f := newFixture(t)

	want := []*cycle.Cycle{pendingCycle("1.00", "1.00", time.Now())}
	f.repo.EXPECT().ListRecent(gomock.Any(), orgID, 12).Return(want, nil)

	got, err := f.svc.ListRecent(context.Background(), orgID, 12)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// decimalEq matches a decimal argument by numeric value rather than exponent.
func decimalEq(value string) gomock.Matcher {
	want := decimal.RequireFromString(value)

	return gomock.Cond(func(x any) bool {
		d, ok := x.(decimal.Decimal)
		return ok && d.Equal(want)
	})
}
