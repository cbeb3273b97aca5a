package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lodgeguard/lodgeguard/internal/audit"
	"github.com/lodgeguard/lodgeguard/internal/banking"
	"github.com/lodgeguard/lodgeguard/internal/event"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

type applierFixture struct {
	applier *ledger.Applier
	repo    *ledger.MockRepository
	auditor *audit.MockLogger
	gateway *ledger.MockPartnerGateway
}

func newApplierFixture(t *testing.T, withGateway bool) *applierFixture {
	ctrl := gomock.NewController(t)

	repo := ledger.NewMockRepository(ctrl)
	auditor := audit.NewMockLogger(ctrl)

	var gateway *ledger.MockPartnerGateway

	var partner ledger.PartnerGateway

	if withGateway {
		gateway = ledger.NewMockPartnerGateway(ctrl)
		partner = gateway
	}

	return &applierFixture{
		applier: ledger.NewApplier(repo, auditor, event.Noop{}, partner),
		repo:    repo,
		auditor: auditor,
		gateway: gateway,
	}
}

func applyParams(amount string) ledger.ApplyParams {
	return ledger.ApplyParams{
		OrgID:     orgID,
		AccountID: uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Source:    "payroll_system",
		ActorID:   "system",
	}
}

func TestApplier_Apply_CreditsAndRecords(t *testing.T) {
	f := newApplierFixture(t, false)

	params := applyParams("100.00")

	f.repo.EXPECT().IncrementBalance(gomock.Any(), params.AccountID, gomock.Any()).
		Return(decimal.RequireFromString("350.50"), nil)
	f.repo.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr *ledger.Transfer) error {
			tr.ID = uuid.New()
			assert.True(t, tr.Amount.Equal(params.Amount))
			assert.Equal(t, orgID, tr.OrgID)
			return nil
		})
	f.auditor.EXPECT().Log(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry audit.Entry) error {
			assert.Equal(t, "designated_account.transfer", entry.Action)
			assert.Equal(t, "100", entry.Metadata["amount"])
			return nil
		})

	result, err := f.applier.Apply(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, params.AccountID, result.AccountID)
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("350.50")))
	assert.NotEqual(t, uuid.Nil, result.TransferID)
	assert.Empty(t, result.PartnerReference)
}

func TestApplier_Apply_NegativeAmountIsDebitPolicyViolation(t *testing.T) {
	f := newApplierFixture(t, false)

	_, err := f.applier.Apply(context.Background(), applyParams("-50.00"))
	assert.ErrorIs(t, err, ledger.ErrDebitPolicy)
}

func TestApplier_Apply_ZeroAmountRejected(t *testing.T) {
	f := newApplierFixture(t, false)

	_, err := f.applier.Apply(context.Background(), applyParams("0"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestApplier_Apply_PartnerFailureAppliesNothingLocally(t *testing.T) {
	f := newApplierFixture(t, true)

	params := applyParams("100.00")

	f.gateway.EXPECT().CreditDesignatedAccount(gomock.Any(), gomock.Any()).
		Return(nil, &banking.PartnerError{Err: banking.ErrPartnerTimeout})

	// No IncrementBalance, CreateTransfer or audit entry.
	_, err := f.applier.Apply(context.Background(), params)
	assert.ErrorIs(t, err, banking.ErrPartnerTimeout)
}

func TestApplier_Apply_PartnerReferenceCarriedThrough(t *testing.T) {
	f := newApplierFixture(t, true)

	params := applyParams("250.50")

	f.gateway.EXPECT().CreditDesignatedAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req banking.CreditRequest) (*banking.CreditResponse, error) {
			assert.Equal(t, params.AccountID.String(), req.AccountID)
			assert.True(t, req.Amount.Equal(params.Amount))
			return &banking.CreditResponse{Status: banking.StatusSettled, PartnerReference: "ptn-42"}, nil
		})

	f.repo.EXPECT().IncrementBalance(gomock.Any(), params.AccountID, gomock.Any()).
		Return(decimal.RequireFromString("250.50"), nil)
	f.repo.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil)
	f.auditor.EXPECT().Log(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry audit.Entry) error {
			assert.Equal(t, "ptn-42", entry.Metadata["partner_reference"])
			return nil
		})

	result, err := f.applier.Apply(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "ptn-42", result.PartnerReference)
}
