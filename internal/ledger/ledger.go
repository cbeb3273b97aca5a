package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType is the tax obligation a designated account ring-fences funds for.
type AccountType string

const (
	TypeWithholdingBuffer AccountType = "WITHHOLDING_BUFFER"
	TypeConsumptionBuffer AccountType = "CONSUMPTION_BUFFER"
)

var (
	ErrAccountNotFound = errors.New("designated account not configured")

	ErrInvalidAmount = errors.New("transfer amount must be positive")

	ErrUnsupportedType = errors.New("unsupported designated account type")

	// ErrDebitPolicy is a fatal invariant violation: designated accounts are
	// credit-only and must never be drawn down by normal code paths.
	ErrDebitPolicy = errors.New("designated accounts are credit-only; debit blocked by policy")
)

// Account is a ring-fenced balance for one (org, tax type). At most one
// account exists per pair. The balance only ever grows outside of explicit
// policy probes.
type Account struct {
	ID        uuid.UUID
	OrgID     string
	Type      AccountType
	Balance   decimal.Decimal
	Locked    bool
	LockedAt  *time.Time
	UpdatedAt time.Time
}

// Transfer records one credit applied to a designated account.
type Transfer struct {
	ID        uuid.UUID
	OrgID     string
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Source    string
	ActorID   string
	CreatedAt time.Time
}

// InsufficientFundsError reports that a designated account cannot cover a
// requirement. Carries the shortfall detail for alerting and UI surfaces.
type InsufficientFundsError struct {
	OrgID     string
	Type      AccountType
	Required  decimal.Decimal
	Balance   decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("designated %s account balance %s does not cover requirement %s (short by %s)",
		e.Type, e.Balance.StringFixed(2), e.Required.StringFixed(2), e.Shortfall.StringFixed(2))
}

// ValidType reports whether t names a known designated account type.
func ValidType(t AccountType) bool {
	return t == TypeWithholdingBuffer || t == TypeConsumptionBuffer
}
