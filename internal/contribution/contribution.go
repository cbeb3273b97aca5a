package contribution

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source identifies the revenue stream a contribution was captured from.
type Source string

const (
	SourcePayroll Source = "payroll_system"
	SourcePOS     Source = "pos_system"
)

var (
	ErrInvalidAmount = errors.New("contribution amount must be positive")
	ErrNotFound      = errors.New("contribution not found")
)

// Contribution is a captured slice of payroll or point-of-sale revenue,
// waiting to be secured into a designated account. Immutable once AppliedAt
// is set; only the transfer applier stamps AppliedAt and TransferID.
type Contribution struct {
	ID             uuid.UUID
	OrgID          string
	Amount         decimal.Decimal
	Source         Source
	ActorID        string
	IdempotencyKey string
	CreatedAt      time.Time
	AppliedAt      *time.Time
	TransferID     *string
}

// Summary reports the applied totals per revenue stream.
type Summary struct {
	WithholdingSecured decimal.Decimal
	ConsumptionSecured decimal.Decimal
}
