package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrDuplicate is returned by the repository when the unique (org_id, key)
// constraint is violated. The guard translates it into ErrReplay or
// ErrPayloadMismatch.
var ErrDuplicate = errors.New("idempotency record already exists")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=idempotency
type Repository interface {
	InsertRecord(ctx context.Context, record *Record) error
	GetRecord(ctx context.Context, orgID, key string) (*Record, error)
	SetResult(ctx context.Context, orgID, key, resource, resourceID string) error
}

// Guard deduplicates write requests keyed by (org, key or payload digest).
type Guard struct {
	repo Repository
}

func NewGuard(repo Repository) *Guard {
	return &Guard{repo: repo}
}

// Request describes one logical write to protect.
type Request struct {
	OrgID    string
	Key      string // optional; derived from the payload when empty
	ActorID  string
	Resource string
	Payload  any
}

// Operation performs the protected write. It receives the resolved key and
// returns the id of the resource it created, if any.
type Operation func(ctx context.Context, key string) (resourceID string, err error)

// Execute inserts an idempotency record and then runs op exactly once per
// (org, key). A concurrent or repeated attempt with the same key fails with
// ErrReplay before op runs; the original result is not re-returned.
func (g *Guard) Execute(ctx context.Context, req Request, op Operation) error {
	key, err := resolveKey(req)
	if err != nil {
		return err
	}

	requestHash := hashPayload(req.Payload)

	actorID := req.ActorID
	if actorID == "" {
		actorID = "system"
	}

	record := &Record{
		OrgID:       req.OrgID,
		Key:         key,
		ActorID:     actorID,
		Resource:    req.Resource,
		RequestHash: requestHash,
	}

	if err := g.repo.InsertRecord(ctx, record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return g.classifyReplay(ctx, req.OrgID, key, requestHash)
		}

		return fmt.Errorf("inserting idempotency record: %w", err)
	}

	resourceID, err := op(ctx, key)
	if err != nil {
		return err
	}

	if resourceID != "" {
		// Best effort: the operation itself already succeeded.
		if err := g.repo.SetResult(ctx, req.OrgID, key, req.Resource, resourceID); err != nil {
			slog.Error("failed to backfill idempotency result", "org_id", req.OrgID, "key", key, "error", err)
		}
	}

	return nil
}

func (g *Guard) classifyReplay(ctx context.Context, orgID, key, requestHash string) error {
	existing, err := g.repo.GetRecord(ctx, orgID, key)
	if err != nil {
		return ErrReplay
	}

	if existing.RequestHash != "" && existing.RequestHash != requestHash {
		return ErrPayloadMismatch
	}

	return ErrReplay
}

func resolveKey(req Request) (string, error) {
	if req.Key != "" {
		return req.Key, nil
	}

	if req.Payload == nil {
		return "", ErrMissingKey
	}

	digest := sha256.Sum256([]byte(req.OrgID + ":" + req.Resource + ":" + canonical(req.Payload)))

	return "payload:" + hex.EncodeToString(digest[:]), nil
}

func hashPayload(payload any) string {
	digest := sha256.Sum256([]byte(canonical(payload)))
	return hex.EncodeToString(digest[:])
}

func canonical(payload any) string {
	if payload == nil {
		return ""
	}

	if s, ok := payload.(string); ok {
		return s
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}

	return string(data)
}
