package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/banking"
)

// BalanceProvider answers where the truth about an account's funds lives:
// the local ledger row or the partner bank. Selected at construction.
type BalanceProvider interface {
	Balance(ctx context.Context, account *Account) (decimal.Decimal, error)
	// BlockTransfer is an advisory hook invoked on shortfall. Failures are
	// logged, never propagated.
	BlockTransfer(ctx context.Context, account *Account, shortfall decimal.Decimal) error
}

// LocalProvider trusts the ledger's own balance column.
type LocalProvider struct{}

func (LocalProvider) Balance(_ context.Context, account *Account) (decimal.Decimal, error) {
	return account.Balance, nil
}

func (LocalProvider) BlockTransfer(context.Context, *Account, decimal.Decimal) error {
	return nil
}

// PartnerProvider asks the partner bank for the authoritative balance and
// relays shortfall locks to it.
type PartnerProvider struct {
	gateway *banking.Gateway
}

func NewPartnerProvider(gateway *banking.Gateway) *PartnerProvider {
	return &PartnerProvider{gateway: gateway}
}

func (p *PartnerProvider) Balance(ctx context.Context, account *Account) (decimal.Decimal, error) {
	return p.gateway.AccountBalance(ctx, account.ID.String())
}

func (p *PartnerProvider) BlockTransfer(ctx context.Context, account *Account, shortfall decimal.Decimal) error {
	return p.gateway.LockAccount(ctx, account.ID.String(), shortfall)
}
