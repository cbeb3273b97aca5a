package event

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Subjects published by the securing engine. Delivery is fire-and-forget,
// at-least-once; consumers must deduplicate on their side.
const (
	SubjectAuditRecorded      = "audit.recorded"
	SubjectTransferApplied    = "transfers.applied"
	SubjectCycleStatusChanged = "cycles.status_changed"
	SubjectAlertRaised        = "alerts.raised"
	SubjectAlertResolved      = "alerts.resolved"
)

// Publisher delivers domain events to the message bus. Publish failures are
// logged by callers and never fail the originating operation.
type Publisher interface {
	Publish(subject string, payload any) error
}

type Bus struct {
	nc *nats.Conn
}

func NewBus(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

func (b *Bus) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return b.nc.Publish(subject, data)
}

// Noop is used when no message bus is configured.
type Noop struct{}

func (Noop) Publish(string, any) error { return nil }

// Emit publishes and logs failures instead of propagating them.
func Emit(p Publisher, subject string, payload any) {
	if p == nil {
		return
	}

	if err := p.Publish(subject, payload); err != nil {
		slog.Error("failed to publish event", "subject", subject, "error", err)
	}
}
