package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/alert"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetAccountByType(ctx context.Context, orgID string, typ AccountType) (*Account, error)
	ListAccounts(ctx context.Context, orgID string) ([]*Account, error)
	SetLocked(ctx context.Context, accountID uuid.UUID, locked bool) error
	// IncrementBalance must be a single atomic update against the account
	// row; concurrent credits must never lose an update.
	IncrementBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	CreateTransfer(ctx context.Context, transfer *Transfer) error
}

// Service tracks designated-account balances, enforces fund coverage and
// manages lock state. The balance provider is injected at construction; there
// is no global adapter swapping.
type Service struct {
	repo     Repository
	provider BalanceProvider
	alerts   *alert.Service
}

func NewService(repo Repository, provider BalanceProvider, alerts *alert.Service) *Service {
	return &Service{repo: repo, provider: provider, alerts: alerts}
}

// CoverageContext decorates shortfall alert messages with the caller's context.
type CoverageContext struct {
	CycleID     string
	Description string
}

// EnsureCoverage verifies that the designated account for (org, type) can
// cover requiredAmount. On shortfall it refreshes the shortfall alert,
// invokes the provider's advisory block hook, locks the account and fails
// with InsufficientFundsError. A passing check does NOT release an earlier
// lock; ReleaseLock is an explicit operator action.
func (s *Service) EnsureCoverage(ctx context.Context, orgID string, typ AccountType, requiredAmount decimal.Decimal, coverage *CoverageContext) (*Account, error) {
	if !ValidType(typ) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	}

	account, err := s.repo.GetAccountByType(ctx, orgID, typ)
	if err != nil {
		return nil, err
	}

	balance, err := s.provider.Balance(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("reading balance for account %s: %w", account.ID, err)
	}

	shortfall := requiredAmount.Sub(balance)
	if !shortfall.IsPositive() {
		return account, nil
	}

	message := coverageMessage(typ, shortfall, requiredAmount, balance, coverage)

	if err := s.alerts.Sync(ctx, orgID, alertTypeFor(typ), shortfall, message); err != nil {
		return nil, fmt.Errorf("syncing shortfall alert: %w", err)
	}

	if err := s.provider.BlockTransfer(ctx, account, shortfall); err != nil {
		slog.Error("advisory block-transfer hook failed", "account_id", account.ID, "error", err)
	}

	if err := s.repo.SetLocked(ctx, account.ID, true); err != nil {
		return nil, fmt.Errorf("locking account %s: %w", account.ID, err)
	}

	return nil, &InsufficientFundsError{
		OrgID:     orgID,
		Type:      typ,
		Required:  requiredAmount,
		Balance:   balance,
		Shortfall: shortfall,
	}
}

// Account returns the designated account for (org, type).
func (s *Service) Account(ctx context.Context, orgID string, typ AccountType) (*Account, error) {
	if !ValidType(typ) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	}

	return s.repo.GetAccountByType(ctx, orgID, typ)
}

// MarkLocked sets the lock flag. Idempotent.
func (s *Service) MarkLocked(ctx context.Context, accountID uuid.UUID) error {
	return s.repo.SetLocked(ctx, accountID, true)
}

// ReleaseLock clears the lock flag. Idempotent.
func (s *Service) ReleaseLock(ctx context.Context, accountID uuid.UUID) error {
	return s.repo.SetLocked(ctx, accountID, false)
}

// Snapshot is a read-only reconciliation view of one designated account.
type Snapshot struct {
	Account   *Account
	Balance   decimal.Decimal
	Locked    bool
	UpdatedAt time.Time
}

func (s *Service) Snapshot(ctx context.Context, orgID string, typ AccountType) (*Snapshot, error) {
	if !ValidType(typ) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	}

	account, err := s.repo.GetAccountByType(ctx, orgID, typ)
	if err != nil {
		return nil, err
	}

	balance, err := s.provider.Balance(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("reading balance for account %s: %w", account.ID, err)
	}

	return &Snapshot{
		Account:   account,
		Balance:   balance,
		Locked:    account.Locked,
		UpdatedAt: account.UpdatedAt,
	}, nil
}

// PoolBalances loads the starting waterfall pool for an org, one balance per
// account type.
func (s *Service) PoolBalances(ctx context.Context, orgID string) (map[AccountType]decimal.Decimal, error) {
	accounts, err := s.repo.ListAccounts(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing designated accounts: %w", err)
	}

	pool := make(map[AccountType]decimal.Decimal, len(accounts))

	for _, account := range accounts {
		balance, err := s.provider.Balance(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("reading balance for account %s: %w", account.ID, err)
		}

		pool[account.Type] = balance
	}

	return pool, nil
}

func alertTypeFor(typ AccountType) alert.Type {
	if typ == TypeWithholdingBuffer {
		return alert.TypeWithholdingShortfall
	}

	return alert.TypeConsumptionShortfall
}

func coverageMessage(typ AccountType, shortfall, required, balance decimal.Decimal, coverage *CoverageContext) string {
	message := fmt.Sprintf("Designated %s account is short by %s (required: %s, actual: %s)",
		typ, shortfall.StringFixed(2), required.StringFixed(2), balance.StringFixed(2))

	if coverage != nil {
		if coverage.CycleID != "" {
			message += fmt.Sprintf(" [cycle=%s]", coverage.CycleID)
		}

		if coverage.Description != "" {
			message += " - " + coverage.Description
		}
	}

	return message
}
