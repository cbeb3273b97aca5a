package cycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lodgment readiness of a cycle. Cycles are created externally
// as PENDING and become terminal once lodged.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusReady   Status = "READY"
	StatusBlocked Status = "BLOCKED"
)

// Cycle is one statutory lodgment period with its required and currently
// secured amounts per tax type. Mutated only by the orchestrator.
type Cycle struct {
	ID                  uuid.UUID
	OrgID               string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	WithholdingRequired decimal.Decimal
	ConsumptionRequired decimal.Decimal
	WithholdingSecured  decimal.Decimal
	ConsumptionSecured  decimal.Decimal
	OverallStatus       Status
	LodgedAt            *time.Time
}
