package notify

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "shelterhub/pkg/domain"
)

func TestHub_DeliversEnqueuedEvents(t *testing.T) {
	recorder := NewRecorder()
	hub := NewHub(recorder, slog.Default(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	hub.Enqueue(NewRequestUpdate("ann@shelterhub.dev", RequestUpdatePayload{
		RequestID:  id.NewRequestID(),
		AnimalName: "Biscuit",
		Status:     "Approved",
	}))
	hub.Enqueue(NewUserRegistered(UserRegisteredPayload{
		UserID:   id.NewUserID(),
		Username: "ann",
		Role:     "Adopter",
	}))

	require.Eventually(t, func() bool {
		return len(recorder.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	updates := recorder.ByType(EventRequestStatusChanged)
	require.Len(t, updates, 1)
	assert.Equal(t, "ann@shelterhub.dev", updates[0].Recipient)

	registered := recorder.ByType(EventUserRegistered)
	require.Len(t, registered, 1)
	assert.Equal(t, AdminGroup, registered[0].Recipient)
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	hub := NewHub(NewRecorder(), slog.Default(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after cancellation")
	}
}
