package contribution

import (
	"time"

	"github.com/google/uuid"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
)

type contributionResponse struct {
	ID         uuid.UUID           `json:"id"`
	OrgID      string              `json:"org_id"`
	Amount     string              `json:"amount"`
	Source     contribution.Source `json:"source"`
	ActorID    string              `json:"actor_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	AppliedAt  *time.Time          `json:"applied_at,omitempty"`
	TransferID *string             `json:"transfer_id,omitempty"`
}

type summaryResponse struct {
	WithholdingSecured string `json:"withholding_secured"`
	ConsumptionSecured string `json:"consumption_secured"`
}

func toResponse(c *contribution.Contribution) contributionResponse {
	return contributionResponse{
		ID:         c.ID,
		OrgID:      c.OrgID,
		Amount:     c.Amount.String(),
		Source:     c.Source,
		ActorID:    c.ActorID,
		CreatedAt:  c.CreatedAt,
		AppliedAt:  c.AppliedAt,
		TransferID: c.TransferID,
	}
}

func toResponseList(entries []*contribution.Contribution) []contributionResponse {
	resp := make([]contributionResponse, len(entries))
	for i, c := range entries {
		resp[i] = toResponse(c)
	}

	return resp
}
