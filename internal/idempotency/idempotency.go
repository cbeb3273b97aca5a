package idempotency

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrReplay reports that a record for this (org, key) already exists. The
	// original effect has already happened; callers must treat the operation
	// as handled and must not retry with the same key.
	ErrReplay = errors.New("operation already executed for this idempotency key")

	// ErrPayloadMismatch reports that a key was reused with a different payload.
	ErrPayloadMismatch = errors.New("payload differs for this idempotency key")

	// ErrMissingKey reports that neither a key nor a payload to derive one
	// from was supplied.
	ErrMissingKey = errors.New("idempotency key or request payload is required")
)

// Record is the durable trace of one logical write. Unique on (org_id, key).
type Record struct {
	ID          uuid.UUID
	OrgID       string
	Key         string
	ActorID     string
	Resource    string
	ResourceID  *string
	RequestHash string
	FirstSeenAt time.Time
}
