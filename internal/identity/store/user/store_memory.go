package user

import (
	"context"
	"strings"
	"sync"

	"shelterhub/internal/identity/models"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
)

// InMemoryStore keeps users in a mutex-guarded map. It favors clarity over
// performance and backs unit tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Save upserts a user. Email is unique across all users; claiming another
// user's email returns sentinel.ErrConflict.
func (s *InMemoryStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if owner, taken := s.byEmail[key]; taken && owner != user.ID {
		return sentinel.ErrConflict
	}

	if existing, ok := s.users[user.ID]; ok {
		delete(s.byEmail, emailKey(existing.Email))
	}
	s.users[user.ID] = user.Clone()
	s.byEmail[key] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		return user.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byEmail[emailKey(email)]; ok {
		return s.users[userID].Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// DeleteByShelter removes all staff accounts of a shelter; the cascade half
// of shelter deletion. Returns how many records went away.
func (s *InMemoryStore) DeleteByShelter(_ context.Context, shelterID id.ShelterID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for userID, user := range s.users {
		if user.BelongsToShelter(shelterID) {
			delete(s.byEmail, emailKey(user.Email))
			delete(s.users, userID)
			deleted++
		}
	}
	return deleted, nil
}

// ListStaffByShelter returns the staff roster of a shelter.
func (s *InMemoryStore) ListStaffByShelter(_ context.Context, shelterID id.ShelterID) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.User
	for _, user := range s.users {
		if user.BelongsToShelter(shelterID) {
			out = append(out, user.Clone())
		}
	}
	return out, nil
}

// Count reports the total number of users, for dashboard aggregates.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
