package cycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/lodgeguard/lodgeguard/internal/cycle"
)

type cycleResponse struct {
	ID                  uuid.UUID    `json:"id"`
	OrgID               string       `json:"org_id"`
	PeriodStart         time.Time    `json:"period_start"`
	PeriodEnd           time.Time    `json:"period_end"`
	WithholdingRequired string       `json:"withholding_required"`
	ConsumptionRequired string       `json:"consumption_required"`
	WithholdingSecured  string       `json:"withholding_secured"`
	ConsumptionSecured  string       `json:"consumption_secured"`
	OverallStatus       cycle.Status `json:"overall_status"`
	LodgedAt            *time.Time   `json:"lodged_at,omitempty"`
}

func toResponse(c *cycle.Cycle) cycleResponse {
	return cycleResponse{
		ID:                  c.ID,
		OrgID:               c.OrgID,
		PeriodStart:         c.PeriodStart,
		PeriodEnd:           c.PeriodEnd,
		WithholdingRequired: c.WithholdingRequired.String(),
		ConsumptionRequired: c.ConsumptionRequired.String(),
		WithholdingSecured:  c.WithholdingSecured.String(),
		ConsumptionSecured:  c.ConsumptionSecured.String(),
		OverallStatus:       c.OverallStatus,
		LodgedAt:            c.LodgedAt,
	}
}

func toResponseList(cycles []*cycle.Cycle) []cycleResponse {
	resp := make([]cycleResponse, len(cycles))
	for i, c := range cycles {
		resp[i] = toResponse(c)
	}

	return resp
}
