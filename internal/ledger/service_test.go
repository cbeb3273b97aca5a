package ledger_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lodgeguard/lodgeguard/internal/alert"
	"github.com/lodgeguard/lodgeguard/internal/event"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

const orgID = "org-123"

type coverageFixture struct {
	svc    *ledger.Service
	repo   *ledger.MockRepository
	alerts *alert.MockRepository
}

func newCoverageFixture(t *testing.T) *coverageFixture {
	ctrl := gomock.NewController(t)

	repo := ledger.NewMockRepository(ctrl)
	alertRepo := alert.NewMockRepository(ctrl)

	svc := ledger.NewService(repo, ledger.LocalProvider{}, alert.NewService(alertRepo, event.Noop{}))

	return &coverageFixture{svc: svc, repo: repo, alerts: alertRepo}
}

func account(typ ledger.AccountType, balance string) *ledger.Account {
	return &ledger.Account{
		ID:        uuid.New(),
		OrgID:     orgID,
		Type:      typ,
		Balance:   decimal.RequireFromString(balance),
		UpdatedAt: time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestService_EnsureCoverage_SufficientBalance(t *testing.T) {
	f := newCoverageFixture(t)

	acct := account(ledger.TypeWithholdingBuffer, "1000.00")
	f.repo.EXPECT().GetAccountByType(gomock.Any(), orgID, ledger.TypeWithholdingBuffer).Return(acct, nil)

	got, err := f.svc.EnsureCoverage(context.Background(), orgID, ledger.TypeWithholdingBuffer,
		decimal.RequireFromString("750.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, acct, got)
}

func TestService_EnsureCoverage_ShortfallLocksAndAlerts(t *testing.T) {
	f := newCoverageFixture(t)

	acct := account(ledger.TypeWithholdingBuffer, "750.00")
	f.repo.EXPECT().GetAccountByType(gomock.Any(), orgID, ledger.TypeWithholdingBuffer).Return(acct, nil)

	f.alerts.EXPECT().FindUnresolved(gomock.Any(), orgID, alert.TypeWithholdingShortfall).
		Return(nil, alert.ErrNotFound)
	f.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *alert.Alert) error {
			assert.Equal(t, alert.SeverityHigh, a.Severity)
			assert.Contains(t, a.Message, "250.00")
			return nil
		})

	f.repo.EXPECT().SetLocked(gomock.Any(), acct.ID, true).Return(nil)

	_, err := f.svc.EnsureCoverage(context.Background(), orgID, ledger.TypeWithholdingBuffer,
		decimal.RequireFromString("1000.00"), nil)

	var insufficient *ledger.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Shortfall.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, insufficient.Balance.Equal(decimal.RequireFromString("750.00")))
}

func TestService_EnsureCoverage_ExistingAlertRefreshedNotDuplicated(t *testing.T) {
	f := newCoverageFixture(t)

	acct := account(ledger.TypeConsumptionBuffer, "100.00")
	f.repo.EXPECT().GetAccountByType(gomock.Any(), orgID, ledger.TypeConsumptionBuffer).Return(acct, nil)

	existing := &alert.Alert{ID: uuid.New(), OrgID: orgID, Type: alert.TypeConsumptionShortfall}
	f.alerts.EXPECT().FindUnresolved(gomock.Any(), orgID, alert.TypeConsumptionShortfall).
		Return(existing, nil)
	f.alerts.EXPECT().UpdateMessage(gomock.Any(), existing.ID, gomock.Any()).Return(nil)

	f.repo.EXPECT().SetLocked(gomock.Any(), acct.ID, true).Return(nil)

	_, err := f.svc.EnsureCoverage(context.Background(), orgID, ledger.TypeConsumptionBuffer,
		decimal.RequireFromString("300.00"), nil)

	var insufficient *ledger.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
}

func TestService_EnsureCoverage_NoAutoUnlock(t *testing.T) {
	f := newCoverageFixture(t)

	acct := account(ledger.TypeWithholdingBuffer, "1000.00")
	acct.Locked = true
	f.repo.EXPECT().GetAccountByType(gomock.Any(), orgID, ledger.TypeWithholdingBuffer).Return(acct, nil)

	// SetLocked must not be called: clearing a lock is an explicit operation.
	got, err := f.svc.EnsureCoverage(context.Background(), orgID, ledger.TypeWithholdingBuffer,
		decimal.RequireFromString("500.00"), nil)
	require.NoError(t, err)
	assert.True(t, got.Locked)
}

func TestService_EnsureCoverage_CoverageContextDecoratesMessage(t *testing.T) {
	f := newCoverageFixture(t)

	acct := account(ledger.TypeWithholdingBuffer, "10.00")
	f.repo.EXPECT().GetAccountByType(gomock.Any(), orgID, ledger.TypeWithholdingBuffer).Return(acct, nil)

	f.alerts.EXPECT().FindUnresolved(gomock.Any(), orgID, alert.TypeWithholdingShortfall).
		Return(nil, alert.ErrNotFound)
	f.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *alert.Alert) error {
			assert.True(t, strings.Contains(a.Message, "[cycle=cyc-7]"), "message: %s", a.Message)
			assert.Contains(t, a.Message, "quarterly lodgment")
			return nil
		})
	f.repo.EXPECT().SetLocked(gomock.Any(), acct.ID, true).Return(nil)

	_, err := f.svc.EnsureCoverage(context.Background(), orgID, ledger.TypeWithholdingBuffer,
		decimal.RequireFromString("100.00"),
		&ledger.CoverageContext{CycleID: "cyc-7", Description: "quarterly lodgment"})
	assert.Error(t, err)
}

func TestService_EnsureCoverage_UnsupportedType(t *testing.T) {
	f := newCoverageFixture(t)

	_, err := f.svc.EnsureCoverage(context.Background(), orgID, ledger.AccountType("SLUSH_FUND"),
		decimal.NewFromInt(1), nil)
	assert.ErrorIs(t, err, ledger.ErrUnsupportedType)
}

func TestService_ReleaseLock(t *testing.T) {
	f := newCoverageFixture(t)

	id := uuid.New()
	f.repo.EXPECT().SetLocked(gomock.Any(), id, false).Return(nil)

	require.NoError(t, f.svc.ReleaseLock(context.Background(), id))
}

func TestService_PoolBalances(t *testing.T) {
	f := newCoverageFixture(t)

	withholding := account(ledger.TypeWithholdingBuffer, "1000.00")
	consumption := account(ledger.TypeConsumptionBuffer, "250.00")

	f.repo.EXPECT().ListAccounts(gomock.Any(), orgID).
		Return([]*ledger.Account{withholding, consumption}, nil)

	pool, err := f.svc.PoolBalances(context.Background(), orgID)
	require.NoError(t, err)

	assert.True(t, pool[ledger.TypeWithholdingBuffer].Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, pool[ledger.TypeConsumptionBuffer].Equal(decimal.RequireFromString("250.00")))
}

func TestService_Snapshot(t *testing.T) {
	f := newCoverageFixture(t)

	acct := account(ledger.TypeConsumptionBuffer, "42.00")
	acct.Locked = true
	f.repo.EXPECT().GetAccountByType(gomock.Any(), orgID, ledger.TypeConsumptionBuffer).Return(acct, nil)

	snap, err := f.svc.Snapshot(context.Background(), orgID, ledger.TypeConsumptionBuffer)
	require.NoError(t, err)

	assert.True(t, snap.Balance.Equal(decimal.RequireFromString("42.00")))
	assert.True(t, snap.Locked)
	assert.Equal(t, acct.UpdatedAt, snap.UpdatedAt)
}

func TestService_Account_NotFoundPassthrough(t *testing.T) {
	f := newCoverageFixture(t)

	f.repo.EXPECT().GetAccountByType(gomock.Any(), orgID, ledger.TypeWithholdingBuffer).
		Return(nil, ledger.ErrAccountNotFound)

	_, err := f.svc.Account(context.Background(), orgID, ledger.TypeWithholdingBuffer)
	assert.True(t, errors.Is(err, ledger.ErrAccountNotFound))
}
