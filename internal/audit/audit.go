package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lodgeguard/lodgeguard/internal/event"
)

// Entry is a single audit record. Every balance mutation and partner
// reconciliation produces one.
type Entry struct {
	ID        uuid.UUID
	OrgID     string
	ActorID   string
	Action    string
	Metadata  map[string]any
	CreatedAt time.Time
}

// Logger records audit entries. Implementations must be safe for concurrent use.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

//go:generate mockgen -source=audit.go -destination=audit_mock.go -package=audit
type Repository interface {
	CreateEntry(ctx context.Context, entry *Entry) error
}

// Service persists audit entries and mirrors them onto the event bus.
type Service struct {
	repo Repository
	bus  event.Publisher
}

func NewService(repo Repository, bus event.Publisher) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) Log(ctx context.Context, entry Entry) error {
	if err := s.repo.CreateEntry(ctx, &entry); err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	event.Emit(s.bus, event.SubjectAuditRecorded, map[string]any{
		"org_id":   entry.OrgID,
		"actor_id": entry.ActorID,
		"action":   entry.Action,
		"metadata": entry.Metadata,
	})

	return nil
}
