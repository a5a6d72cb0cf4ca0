package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Recorder captures published events in memory. Tests assert against it; it
// also backs local development when no transport is configured.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByType filters recorded events.
func (r *Recorder) ByType(eventType EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// LogGateway writes events to the structured log; the development fallback
// when neither Redis nor Kafka is configured.
type LogGateway struct {
	logger *slog.Logger
}

func NewLogGateway(logger *slog.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

func (g *LogGateway) Publish(_ context.Context, event Event) error {
	g.logger.Info("notification",
		"type", string(event.Type),
		"recipient", event.Recipient,
		"payload", string(event.Payload),
	)
	return nil
}
