package notify

import (
	"context"
	"log/slog"

	"shelterhub/internal/platform/metrics"
)

const defaultInbox = 256

// Hub decouples publishers from transport latency: Enqueue never blocks the
// caller, and a single worker goroutine drains the inbox into the gateway.
type Hub struct {
	gateway Gateway
	inbox   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHub builds a hub over the given gateway.
func NewHub(gateway Gateway, logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		gateway: gateway,
		inbox:   make(chan Event, defaultInbox),
		logger:  logger,
		metrics: m,
	}
}

// Enqueue hands an event to the worker. A full inbox drops the event with a
// warning; notifications are advisory and must not stall a committed
// transition.
func (h *Hub) Enqueue(event Event) {
	select {
	case h.inbox <- event:
	default:
		h.logger.Warn("notification inbox full, dropping event",
			"type", string(event.Type),
			"recipient", event.Recipient,
		)
		if h.metrics != nil {
			h.metrics.NotificationsDropped.Inc()
		}
	}
}

// Run consumes the inbox until the context is cancelled. Gateway failures are
// logged and the event abandoned; the transition it describes has already
// committed.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-h.inbox:
			if err := h.gateway.Publish(ctx, event); err != nil {
				h.logger.Error("notification publish failed",
					"type", string(event.Type),
					"recipient", event.Recipient,
					"error", err,
				)
				continue
			}
			if h.metrics != nil {
				h.metrics.NotificationsPublished.Inc()
			}
		}
	}
}
