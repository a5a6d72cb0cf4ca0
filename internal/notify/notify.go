// Package notify defines the outbound notification port and its adapters.
//
// The workflow engine and identity service publish events here after state is
// durably committed, never before. Delivery is at-least-once and fire-and-forget
// from the publisher's perspective; adapters own retries and transport.
package notify

import (
	"context"
	"encoding/json"
	"time"

	id "shelterhub/pkg/domain"
)

// EventType names the notification families pushed to subscribed parties.
type EventType string

const (
	// EventRequestStatusChanged is a per-user message update, keyed by the
	// participant's email.
	EventRequestStatusChanged EventType = "request.status_changed"
	// EventUserRegistered is broadcast to the admin group on registration.
	EventUserRegistered EventType = "user.registered"
	// EventDashboardStats is broadcast to the admin group when aggregate
	// dashboard numbers change.
	EventDashboardStats EventType = "dashboard.stats"
)

// AdminGroup is the recipient key for admin-group broadcasts.
const AdminGroup = "admins"

// Event is the transport-agnostic notification envelope.
type Event struct {
	Type       EventType       `json:"type"`
	Recipient  string          `json:"recipient"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Gateway delivers events to a transport. Adapters: Redis pub/sub, Kafka,
// slog (development), and a recorder for tests.
type Gateway interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher is the narrow port services depend on. The Hub implements it; the
// engine never blocks on transport latency.
type Publisher interface {
	Enqueue(event Event)
}

// RequestUpdatePayload describes a workflow transition to the adopter.
type RequestUpdatePayload struct {
	RequestID  id.RequestID `json:"request_id"`
	AnimalName string       `json:"animal_name"`
	Status     string       `json:"status"`
}

// NewRequestUpdate builds a per-user event for a request transition.
func NewRequestUpdate(recipient string, payload RequestUpdatePayload) Event {
	return newEvent(EventRequestStatusChanged, recipient, payload)
}

// UserRegisteredPayload announces a new account to the admin group.
type UserRegisteredPayload struct {
	UserID   id.UserID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// NewUserRegistered builds the admin-group broadcast for a registration.
func NewUserRegistered(payload UserRegisteredPayload) Event {
	return newEvent(EventUserRegistered, AdminGroup, payload)
}

// NewDashboardStats builds the admin-group broadcast for aggregate changes.
// The payload is produced by the stats collector.
func NewDashboardStats(payload any) Event {
	return newEvent(EventDashboardStats, AdminGroup, payload)
}

func newEvent(eventType EventType, recipient string, payload any) Event {
	// Payload structs marshal cleanly; a failure here would be a programming
	// error, so a nil payload is preferable to losing the event.
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	return Event{
		Type:       eventType,
		Recipient:  recipient,
		Payload:    data,
		OccurredAt: time.Now(),
	}
}
