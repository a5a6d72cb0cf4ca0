// Package store persists the shelter aggregate: shelters, categories, and
// animals. In-memory stores keep the initial implementation lightweight and
// testable; they intentionally favor clarity over performance.
package store

import (
	"context"
	"strings"
	"sync"

	"shelterhub/internal/shelter/models"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
)

type InMemoryShelterStore struct {
	mu       sync.RWMutex
	shelters map[id.ShelterID]*models.Shelter
}

func NewInMemoryShelterStore() *InMemoryShelterStore {
	return &InMemoryShelterStore{shelters: make(map[id.ShelterID]*models.Shelter)}
}

// Save upserts a shelter; names are globally unique.
func (s *InMemoryShelterStore) Save(_ context.Context, shelter *models.Shelter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for otherID, other := range s.shelters {
		if otherID != shelter.ID && strings.EqualFold(other.Name, shelter.Name) {
			return sentinel.ErrConflict
		}
	}
	copied := *shelter
	s.shelters[shelter.ID] = &copied
	return nil
}

func (s *InMemoryShelterStore) FindByID(_ context.Context, shelterID id.ShelterID) (*models.Shelter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if shelter, ok := s.shelters[shelterID]; ok {
		copied := *shelter
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryShelterStore) Delete(_ context.Context, shelterID id.ShelterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shelters[shelterID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.shelters, shelterID)
	return nil
}

func (s *InMemoryShelterStore) List(_ context.Context) ([]*models.Shelter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Shelter, 0, len(s.shelters))
	for _, shelter := range s.shelters {
		copied := *shelter
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemoryShelterStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shelters), nil
}

type InMemoryCategoryStore struct {
	mu         sync.RWMutex
	categories map[id.CategoryID]*models.Category
}

func NewInMemoryCategoryStore() *InMemoryCategoryStore {
	return &InMemoryCategoryStore{categories: make(map[id.CategoryID]*models.Category)}
}

func (s *InMemoryCategoryStore) Save(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *category
	s.categories[category.ID] = &copied
	return nil
}

func (s *InMemoryCategoryStore) FindByID(_ context.Context, categoryID id.CategoryID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if category, ok := s.categories[categoryID]; ok {
		copied := *category
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryCategoryStore) ListByShelter(_ context.Context, shelterID id.ShelterID) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Category
	for _, category := range s.categories {
		if category.ShelterID == shelterID {
			copied := *category
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryCategoryStore) Delete(_ context.Context, categoryID id.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[categoryID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.categories, categoryID)
	return nil
}

// DeleteByShelter removes a shelter's categories; the cascade half of shelter
// deletion.
func (s *InMemoryCategoryStore) DeleteByShelter(_ context.Context, shelterID id.ShelterID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for categoryID, category := range s.categories {
		if category.ShelterID == shelterID {
			delete(s.categories, categoryID)
			deleted++
		}
	}
	return deleted, nil
}

type InMemoryAnimalStore struct {
	mu      sync.RWMutex
	animals map[id.AnimalID]*models.Animal
}

func NewInMemoryAnimalStore() *InMemoryAnimalStore {
	return &InMemoryAnimalStore{animals: make(map[id.AnimalID]*models.Animal)}
}

func (s *InMemoryAnimalStore) Save(_ context.Context, animal *models.Animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *animal
	s.animals[animal.ID] = &copied
	return nil
}

func (s *InMemoryAnimalStore) FindByID(_ context.Context, animalID id.AnimalID) (*models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if animal, ok := s.animals[animalID]; ok {
		copied := *animal
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryAnimalStore) ListByShelter(_ context.Context, shelterID id.ShelterID) ([]*models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Animal
	for _, animal := range s.animals {
		if animal.ShelterID == shelterID {
			copied := *animal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryAnimalStore) CountByShelter(_ context.Context, shelterID id.ShelterID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, animal := range s.animals {
		if animal.ShelterID == shelterID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryAnimalStore) Delete(_ context.Context, animalID id.AnimalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.animals[animalID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.animals, animalID)
	return nil
}

// DeleteByCategory removes a category's animals; the cascade half of category
// deletion.
func (s *InMemoryAnimalStore) DeleteByCategory(_ context.Context, categoryID id.CategoryID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for animalID, animal := range s.animals {
		if animal.CategoryID == categoryID {
			delete(s.animals, animalID)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryAnimalStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.animals), nil
}
