package securing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lodgeguard/lodgeguard/internal/audit"
	"github.com/lodgeguard/lodgeguard/internal/banking"
	"github.com/lodgeguard/lodgeguard/internal/contribution"
	"github.com/lodgeguard/lodgeguard/internal/event"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

const testOrg = "org-123"

var runAt = time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)

type runFixture struct {
	svc           *Service
	contributions *contribution.MockRepository
	ledgerRepo    *ledger.MockRepository
	gateway       *ledger.MockPartnerGateway
	auditor       *audit.MockLogger
}

func newRunFixture(t *testing.T, withGateway bool) *runFixture {
	ctrl := gomock.NewController(t)

	contribRepo := contribution.NewMockRepository(ctrl)
	ledgerRepo := ledger.NewMockRepository(ctrl)
	auditor := audit.NewMockLogger(ctrl)

	var gateway *ledger.MockPartnerGateway

	var applierGateway ledger.PartnerGateway

	if withGateway {
		gateway = ledger.NewMockPartnerGateway(ctrl)
		applierGateway = gateway
	}

	contribSvc := contribution.NewService(contribRepo, nil)
	applier := ledger.NewApplier(ledgerRepo, auditor, event.Noop{}, applierGateway)
	ledgerSvc := ledger.NewService(ledgerRepo, ledger.LocalProvider{}, nil)

	svc := NewService(contribSvc, ledgerSvc, applier, ScheduleDaily)
	svc.now = func() time.Time { return runAt }

	return &runFixture{
		svc:           svc,
		contributions: contribRepo,
		ledgerRepo:    ledgerRepo,
		gateway:       gateway,
		auditor:       auditor,
	}
}

func unapplied(source contribution.Source, amount string, createdAt time.Time) *contribution.Contribution {
	return &contribution.Contribution{
		ID:        uuid.New(),
		OrgID:     testOrg,
		Source:    source,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: createdAt,
	}
}

func amountEq(value string) gomock.Matcher {
	want := decimal.RequireFromString(value)

	return gomock.Cond(func(x any) bool {
		d, ok := x.(decimal.Decimal)
		return ok && d.Equal(want)
	})
}

func TestService_Run_SecuresElapsedBatches(t *testing.T) {
	f := newRunFixture(t, false)

	yesterday := runAt.AddDate(0, 0, -1)
	payrollA := unapplied(contribution.SourcePayroll, "100.00", yesterday)
	payrollB := unapplied(contribution.SourcePayroll, "50.50", yesterday)
	pos := unapplied(contribution.SourcePOS, "30.00", yesterday)
	tooFresh := unapplied(contribution.SourcePayroll, "999.00", runAt)

	f.contributions.EXPECT().ListUnapplied(gomock.Any(), testOrg).
		Return([]*contribution.Contribution{payrollA, payrollB, pos, tooFresh}, nil)

	withholding := &ledger.Account{ID: uuid.New(), OrgID: testOrg, Type: ledger.TypeWithholdingBuffer}
	consumption := &ledger.Account{ID: uuid.New(), OrgID: testOrg, Type: ledger.TypeConsumptionBuffer}

	f.ledgerRepo.EXPECT().GetAccountByType(gomock.Any(), testOrg, ledger.TypeWithholdingBuffer).Return(withholding, nil)
	f.ledgerRepo.EXPECT().GetAccountByType(gomock.Any(), testOrg, ledger.TypeConsumptionBuffer).Return(consumption, nil)

	f.ledgerRepo.EXPECT().IncrementBalance(gomock.Any(), withholding.ID, amountEq("150.50")).
		Return(decimal.RequireFromString("150.50"), nil)
	f.ledgerRepo.EXPECT().IncrementBalance(gomock.Any(), consumption.ID, amountEq("30.00")).
		Return(decimal.RequireFromString("30.00"), nil)

	f.ledgerRepo.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.auditor.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	f.contributions.EXPECT().
		MarkApplied(gomock.Any(), []uuid.UUID{payrollA.ID, payrollB.ID}, gomock.Any(), runAt).
		Return(nil)
	f.contributions.EXPECT().
		MarkApplied(gomock.Any(), []uuid.UUID{pos.ID}, gomock.Any(), runAt).
		Return(nil)

	result, err := f.svc.Run(context.Background(), testOrg)
	require.NoError(t, err)

	assert.Equal(t, 2, result.BatchesApplied)
	assert.Equal(t, 3, result.ContributionsApplied)
	assert.True(t, result.WithholdingSecured.Equal(decimal.RequireFromString("150.50")))
	assert.True(t, result.ConsumptionSecured.Equal(decimal.RequireFromString("30.00")))
}

func TestService_Run_NothingEligible(t *testing.T) {
	f := newRunFixture(t, false)

	f.contributions.EXPECT().ListUnapplied(gomock.Any(), testOrg).
		Return([]*contribution.Contribution{
			unapplied(contribution.SourcePayroll, "10.00", runAt),
		}, nil)

	result, err := f.svc.Run(context.Background(), testOrg)
	require.NoError(t, err)
	assert.Zero(t, result.BatchesApplied)
}

func TestService_Run_RetriesPendingPartner(t *testing.T) {
	f := newRunFixture(t, true)

	payroll := unapplied(contribution.SourcePayroll, "100.00", runAt.AddDate(0, 0, -1))

	f.contributions.EXPECT().ListUnapplied(gomock.Any(), testOrg).
		Return([]*contribution.Contribution{payroll}, nil)

	account := &ledger.Account{ID: uuid.New(), OrgID: testOrg, Type: ledger.TypeWithholdingBuffer}
	f.ledgerRepo.EXPECT().GetAccountByType(gomock.Any(), testOrg, ledger.TypeWithholdingBuffer).Return(account, nil)

	pending := &banking.PartnerError{Err: banking.ErrPartnerPending}
	settled := &banking.CreditResponse{Status: banking.StatusSettled, PartnerReference: "ptn-1"}

	gomock.InOrder(
		f.gateway.EXPECT().CreditDesignatedAccount(gomock.Any(), gomock.Any()).Return(nil, pending),
		f.gateway.EXPECT().CreditDesignatedAccount(gomock.Any(), gomock.Any()).Return(settled, nil),
	)

	f.ledgerRepo.EXPECT().IncrementBalance(gomock.Any(), account.ID, amountEq("100.00")).
		Return(decimal.RequireFromString("100.00"), nil)
	f.ledgerRepo.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil)
	f.auditor.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
	f.contributions.EXPECT().MarkApplied(gomock.Any(), []uuid.UUID{payroll.ID}, gomock.Any(), runAt).Return(nil)

	result, err := f.svc.Run(context.Background(), testOrg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BatchesApplied)
}

func TestService_Run_RejectedPartnerAbortsWithoutLocalApply(t *testing.T) {
	f := newRunFixture(t, true)

	payroll := unapplied(contribution.SourcePayroll, "100.00", runAt.AddDate(0, 0, -1))

	f.contributions.EXPECT().ListUnapplied(gomock.Any(), testOrg).
		Return([]*contribution.Contribution{payroll}, nil)

	account := &ledger.Account{ID: uuid.New(), OrgID: testOrg, Type: ledger.TypeWithholdingBuffer}
	f.ledgerRepo.EXPECT().GetAccountByType(gomock.Any(), testOrg, ledger.TypeWithholdingBuffer).Return(account, nil)

	rejected := &banking.PartnerError{Reference: "ptn-9", Err: banking.ErrPartnerRejected}
	f.gateway.EXPECT().CreditDesignatedAccount(gomock.Any(), gomock.Any()).Return(nil, rejected)

	// No IncrementBalance, CreateTransfer or MarkApplied: the pass aborts.
	_, err := f.svc.Run(context.Background(), testOrg)
	assert.ErrorIs(t, err, banking.ErrPartnerRejected)
}

func TestAccountTypeFor(t *testing.T) {
	assert.Equal(t, ledger.TypeWithholdingBuffer, accountTypeFor(contribution.SourcePayroll))
	assert.Equal(t, ledger.TypeConsumptionBuffer, accountTypeFor(contribution.SourcePOS))
}
