package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/audit"
	"github.com/lodgeguard/lodgeguard/internal/banking"
	"github.com/lodgeguard/lodgeguard/internal/event"
)

// PartnerGateway is the slice of the banking client the applier needs.
//
//go:generate mockgen -source=applier.go -destination=applier_mock.go -package=ledger
type PartnerGateway interface {
	CreditDesignatedAccount(ctx context.Context, req banking.CreditRequest) (*banking.CreditResponse, error)
}

// Applier moves secured funds into designated accounts. The only component
// allowed to mutate account balances, always through the repository's atomic
// increment.
type Applier struct {
	repo    Repository
	auditor audit.Logger
	bus     event.Publisher
	gateway PartnerGateway // optional; nil means local-only application
}

func NewApplier(repo Repository, auditor audit.Logger, bus event.Publisher, gateway PartnerGateway) *Applier {
	return &Applier{repo: repo, auditor: auditor, bus: bus, gateway: gateway}
}

type ApplyParams struct {
	OrgID     string
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Source    string
	ActorID   string
}

type ApplyResult struct {
	AccountID        uuid.UUID
	NewBalance       decimal.Decimal
	TransferID       uuid.UUID
	Source           string
	PartnerReference string
}

// Apply credits a designated account. When a partner gateway is configured
// the partner credit must settle before any local mutation happens; a
// pending, timed-out or rejected partner call applies nothing locally.
func (a *Applier) Apply(ctx context.Context, params ApplyParams) (*ApplyResult, error) {
	if params.Amount.IsNegative() {
		return nil, ErrDebitPolicy
	}

	if params.Amount.IsZero() {
		return nil, ErrInvalidAmount
	}

	var partnerRef string

	if a.gateway != nil {
		resp, err := a.gateway.CreditDesignatedAccount(ctx, banking.CreditRequest{
			OrgID:     params.OrgID,
			AccountID: params.AccountID.String(),
			Amount:    params.Amount,
			Source:    params.Source,
			ActorID:   params.ActorID,
		})
		if err != nil {
			return nil, err
		}

		partnerRef = resp.PartnerReference
	}

	newBalance, err := a.repo.IncrementBalance(ctx, params.AccountID, params.Amount)
	if err != nil {
		return nil, fmt.Errorf("incrementing balance for account %s: %w", params.AccountID, err)
	}

	transfer := &Transfer{
		OrgID:     params.OrgID,
		AccountID: params.AccountID,
		Amount:    params.Amount,
		Source:    params.Source,
		ActorID:   params.ActorID,
	}

	if err := a.repo.CreateTransfer(ctx, transfer); err != nil {
		return nil, fmt.Errorf("recording transfer: %w", err)
	}

	metadata := map[string]any{
		"account_id":  params.AccountID.String(),
		"amount":      params.Amount.String(),
		"source":      params.Source,
		"transfer_id": transfer.ID.String(),
		"new_balance": newBalance.String(),
	}
	if partnerRef != "" {
		metadata["partner_reference"] = partnerRef
	}

	if err := a.auditor.Log(ctx, audit.Entry{
		OrgID:    params.OrgID,
		ActorID:  params.ActorID,
		Action:   "designated_account.transfer",
		Metadata: metadata,
	}); err != nil {
		return nil, err
	}

	event.Emit(a.bus, event.SubjectTransferApplied, metadata)

	return &ApplyResult{
		AccountID:        params.AccountID,
		NewBalance:       newBalance,
		TransferID:       transfer.ID,
		Source:           params.Source,
		PartnerReference: partnerRef,
	}, nil
}
