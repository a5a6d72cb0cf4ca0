package stats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adoption "shelterhub/internal/adoption/models"
	requeststore "shelterhub/internal/adoption/store/request"
	identity "shelterhub/internal/identity/models"
	userstore "shelterhub/internal/identity/store/user"
	"shelterhub/internal/notify"
	"shelterhub/internal/shelter/models"
	shelterstore "shelterhub/internal/shelter/store"
	id "shelterhub/pkg/domain"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *capturePublisher) Enqueue(event notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) all() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Event(nil), p.events...)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	users := userstore.New()
	shelters := shelterstore.NewInMemoryShelterStore()
	animals := shelterstore.NewInMemoryAnimalStore()
	requests := requeststore.New()

	adopter, err := identity.NewAdopter(id.NewUserID(), "jane", "jane@example.com",
		identity.AdopterProfile{Address: "12 Elm St", Phone: "555-0101"})
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, adopter))

	shelter, err := models.NewShelter(id.NewShelterID(), "North Paws", "Oakland", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, shelters.Save(ctx, shelter))

	animal, err := models.NewAnimal(id.NewAnimalID(), "Biscuit", 3, "beagle", id.NewCategoryID(), shelter.ID)
	require.NoError(t, err)
	require.NoError(t, animals.Save(ctx, animal))

	request, err := adoption.NewRequest(id.NewRequestID(), adopter.ID, animal.ID, shelter.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, requests.Create(ctx, request))

	published := &capturePublisher{}
	collector := New(users, shelters, animals, requests, published,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	snapshot, err := collector.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Users)
	assert.Equal(t, 1, snapshot.Shelters)
	assert.Equal(t, 1, snapshot.Animals)
	assert.Equal(t, 1, snapshot.RequestsByStatus[string(adoption.StatusRequested)])
}

func TestRunBroadcastsToAdmins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	published := &capturePublisher{}
	collector := New(userstore.New(), shelterstore.NewInMemoryShelterStore(),
		shelterstore.NewInMemoryAnimalStore(), requeststore.New(), published,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan error, 1)
	go func() { done <- collector.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return len(published.all()) > 0 },
		time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	event := published.all()[0]
	assert.Equal(t, notify.EventDashboardStats, event.Type)
	assert.Equal(t, notify.AdminGroup, event.Recipient)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(event.Payload, &snapshot))
	assert.Zero(t, snapshot.Users)
}
