package coverage

import (
	"time"

	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

type coverageResponse struct {
	Covered   bool               `json:"covered"`
	AccountID string             `json:"account_id,omitempty"`
	Type      ledger.AccountType `json:"type"`
	Balance   string             `json:"balance"`
	Required  string             `json:"required"`
	Shortfall string             `json:"shortfall,omitempty"`
}

type snapshotResponse struct {
	AccountID string             `json:"account_id"`
	OrgID     string             `json:"org_id"`
	Type      ledger.AccountType `json:"type"`
	Balance   string             `json:"balance"`
	Locked    bool               `json:"locked"`
	LockedAt  *time.Time         `json:"locked_at,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func toSnapshotResponse(snap *ledger.Snapshot) snapshotResponse {
	return snapshotResponse{
		AccountID: snap.Account.ID.String(),
		OrgID:     snap.Account.OrgID,
		Type:      snap.Account.Type,
		Balance:   snap.Balance.String(),
		Locked:    snap.Locked,
		LockedAt:  snap.Account.LockedAt,
		UpdatedAt: snap.UpdatedAt,
	}
}
