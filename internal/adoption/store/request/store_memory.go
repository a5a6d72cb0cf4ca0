// Package request persists adoption requests and their one-to-one interview
// sub-records. Updates use an optimistic version check so concurrent
// transitions on the same request serialize: exactly one writer wins.
package request

import (
	"context"
	"sync"

	"shelterhub/internal/adoption/models"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[id.RequestID]*models.AdoptionRequest
}

func New() *InMemoryStore {
	return &InMemoryStore{requests: make(map[id.RequestID]*models.AdoptionRequest)}
}

// Create inserts a new request. At most one active (non-terminal) request may
// exist per adopter+animal pair; a duplicate returns sentinel.ErrConflict.
func (s *InMemoryStore) Create(_ context.Context, request *models.AdoptionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requests[request.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, other := range s.requests {
		if other.AdopterID == request.AdopterID && other.AnimalID == request.AnimalID && other.Active() {
			return sentinel.ErrConflict
		}
	}
	s.requests[request.ID] = request.Clone()
	return nil
}

// Update persists a transitioned request if the caller saw the latest
// version. A stale version loses the race and returns sentinel.ErrConflict;
// the caller's copy is bumped on success.
func (s *InMemoryStore) Update(_ context.Context, request *models.AdoptionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.requests[request.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Version != request.Version {
		return sentinel.ErrConflict
	}

	request.Version++
	s.requests[request.ID] = request.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, requestID id.RequestID) (*models.AdoptionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if request, ok := s.requests[requestID]; ok {
		return request.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByAdopter(_ context.Context, adopterID id.UserID) ([]*models.AdoptionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.AdoptionRequest
	for _, request := range s.requests {
		if request.AdopterID == adopterID {
			out = append(out, request.Clone())
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListByShelter(_ context.Context, shelterID id.ShelterID) ([]*models.AdoptionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.AdoptionRequest
	for _, request := range s.requests {
		if request.ShelterID == shelterID {
			out = append(out, request.Clone())
		}
	}
	return out, nil
}

// HasActiveForAnimal backs the referential restrict rule on animal deletion.
func (s *InMemoryStore) HasActiveForAnimal(_ context.Context, animalID id.AnimalID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, request := range s.requests {
		if request.AnimalID == animalID && request.Active() {
			return true, nil
		}
	}
	return false, nil
}

// CountByStatus feeds the dashboard aggregates.
func (s *InMemoryStore) CountByStatus(_ context.Context) (map[models.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.Status]int)
	for _, request := range s.requests {
		out[request.Status]++
	}
	return out, nil
}
