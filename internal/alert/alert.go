package alert

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type identifies which tax obligation an alert is about.
type Type string

const (
	TypeWithholdingShortfall Type = "WITHHOLDING_SHORTFALL"
	TypeConsumptionShortfall Type = "CONSUMPTION_SHORTFALL"
)

type Severity string

const SeverityHigh Severity = "HIGH"

var ErrNotFound = errors.New("alert not found")

// Alert flags a funding shortfall for one (org, type). At most one unresolved
// alert exists per pair; it is updated in place while the shortfall persists.
type Alert struct {
	ID             uuid.UUID
	OrgID          string
	Type           Type
	Severity       Severity
	Message        string
	CreatedAt      time.Time
	ResolvedAt     *time.Time
	ResolutionNote *string
}
