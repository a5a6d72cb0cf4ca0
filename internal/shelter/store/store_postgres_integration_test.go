//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"shelterhub/internal/shelter/models"
	"shelterhub/internal/shelter/store"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
	"shelterhub/pkg/testutil/containers"
)

type PostgresShelterSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	shelters   *store.PostgresShelterStore
	categories *store.PostgresCategoryStore
	animals    *store.PostgresAnimalStore
}

func TestPostgresShelterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresShelterSuite))
}

func (s *PostgresShelterSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.shelters = store.NewPostgresShelterStore(s.postgres.DB)
	s.categories = store.NewPostgresCategoryStore(s.postgres.DB)
	s.animals = store.NewPostgresAnimalStore(s.postgres.DB)
}

func (s *PostgresShelterSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "shelters")
	s.Require().NoError(err)
}

func (s *PostgresShelterSuite) seedShelter(name string) *models.Shelter {
	shelter, err := models.NewShelter(id.NewShelterID(), name, "7 Dock St", "555-0100", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.shelters.Save(context.Background(), shelter))
	return shelter
}

func (s *PostgresShelterSuite) seedCategory(shelterID id.ShelterID, name string) *models.Category {
	category := &models.Category{ID: id.NewCategoryID(), Name: name, ShelterID: shelterID}
	s.Require().NoError(s.categories.Save(context.Background(), category))
	return category
}

func (s *PostgresShelterSuite) seedAnimal(categoryID id.CategoryID, shelterID id.ShelterID, name string) *models.Animal {
	animal, err := models.NewAnimal(id.NewAnimalID(), name, 3, "mixed", categoryID, shelterID)
	s.Require().NoError(err)
	s.Require().NoError(s.animals.Save(context.Background(), animal))
	return animal
}

// TestDeleteShelterRestrictedWhileAnimalsRemain verifies the RESTRICT foreign
// key: the shelter row cannot go while an animal still references it.
func (s *PostgresShelterSuite) TestDeleteShelterRestrictedWhileAnimalsRemain() {
	ctx := context.Background()
	shelter := s.seedShelter("Restricted Shelter")
	category := s.seedCategory(shelter.ID, "dogs")
	animal := s.seedAnimal(category.ID, shelter.ID, "Rex")

	err := s.shelters.Delete(ctx, shelter.ID)
	s.ErrorIs(err, sentinel.ErrRestricted)

	s.Require().NoError(s.animals.Delete(ctx, animal.ID))
	s.Require().NoError(s.shelters.Delete(ctx, shelter.ID))

	_, err = s.shelters.FindByID(ctx, shelter.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestDeleteShelterCascadesCategories verifies categories ride the shelter's
// cascade once no animal blocks the delete.
func (s *PostgresShelterSuite) TestDeleteShelterCascadesCategories() {
	ctx := context.Background()
	shelter := s.seedShelter("Cascade Shelter")
	category := s.seedCategory(shelter.ID, "cats")

	s.Require().NoError(s.shelters.Delete(ctx, shelter.ID))

	_, err := s.categories.FindByID(ctx, category.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestDeleteCategoryCascadesAnimals verifies the category→animals cascade at
// the database level.
func (s *PostgresShelterSuite) TestDeleteCategoryCascadesAnimals() {
	ctx := context.Background()
	shelter := s.seedShelter("Category Shelter")
	category := s.seedCategory(shelter.ID, "birds")
	animal := s.seedAnimal(category.ID, shelter.ID, "Kiwi")
	keeper := s.seedCategory(shelter.ID, "reptiles")
	kept := s.seedAnimal(keeper.ID, shelter.ID, "Ziggy")

	s.Require().NoError(s.categories.Delete(ctx, category.ID))

	_, err := s.animals.FindByID(ctx, animal.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.animals.FindByID(ctx, kept.ID)
	s.NoError(err, "animals of other categories must survive")
}

// TestConcurrentUniqueShelterName verifies concurrent creation with the same
// name yields exactly one row.
func (s *PostgresShelterSuite) TestConcurrentUniqueShelterName() {
	ctx := context.Background()
	name := "Concurrent Shelter " + uuid.NewString()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			shelter, err := models.NewShelter(id.NewShelterID(), name, "1 Race Rd", "", "", time.Now())
			if err != nil {
				return
			}
			err = s.shelters.Save(ctx, shelter)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")

	count, err := s.shelters.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

// TestAnimalStateRoundTrip verifies state updates persist through Save.
func (s *PostgresShelterSuite) TestAnimalStateRoundTrip() {
	ctx := context.Background()
	shelter := s.seedShelter("State Shelter")
	category := s.seedCategory(shelter.ID, "dogs")
	animal := s.seedAnimal(category.ID, shelter.ID, "Biscuit")

	animal.State = models.AnimalAdopted
	s.Require().NoError(s.animals.Save(ctx, animal))

	got, err := s.animals.FindByID(ctx, animal.ID)
	s.Require().NoError(err)
	s.Equal(models.AnimalAdopted, got.State)

	listed, err := s.animals.ListByShelter(ctx, shelter.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(animal.ID, listed[0].ID)

	n, err := s.animals.CountByShelter(ctx, shelter.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}
