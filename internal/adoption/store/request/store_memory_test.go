package request

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shelterhub/internal/adoption/models"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) newRequest() *models.AdoptionRequest {
	r, err := models.NewRequest(id.NewRequestID(), id.NewUserID(), id.NewAnimalID(), id.NewShelterID(), time.Now())
	s.Require().NoError(err)
	return r
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	request := s.newRequest()
	s.Require().NoError(s.store.Create(context.Background(), request))

	found, err := s.store.FindByID(context.Background(), request.ID)
	s.Require().NoError(err)
	s.Equal(request, found)

	_, err = s.store.FindByID(context.Background(), id.NewRequestID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestActivePairUniqueness() {
	request := s.newRequest()
	s.Require().NoError(s.store.Create(context.Background(), request))

	duplicate, err := models.NewRequest(id.NewRequestID(), request.AdopterID, request.AnimalID, request.ShelterID, time.Now())
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.Create(context.Background(), duplicate), sentinel.ErrConflict)

	// Once the first request is terminal the pair frees up.
	s.Require().NoError(request.Cancel())
	s.Require().NoError(s.store.Update(context.Background(), request))
	s.Require().NoError(s.store.Create(context.Background(), duplicate))
}

func (s *InMemoryStoreSuite) TestUpdateVersionCheck() {
	request := s.newRequest()
	s.Require().NoError(s.store.Create(context.Background(), request))

	stale, err := s.store.FindByID(context.Background(), request.ID)
	s.Require().NoError(err)

	s.Require().NoError(request.ScheduleInterview(id.NewInterviewID(), nil))
	s.Require().NoError(s.store.Update(context.Background(), request))
	s.Equal(2, request.Version)

	s.Require().NoError(stale.Cancel())
	s.Require().ErrorIs(s.store.Update(context.Background(), stale), sentinel.ErrConflict)

	found, err := s.store.FindByID(context.Background(), request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInterviewScheduled, found.Status)
	s.Require().NotNil(found.Interview)
}

// TestConcurrentTransitions verifies the single-writer guarantee: many
// goroutines racing on the same request commit exactly one transition.
func (s *InMemoryStoreSuite) TestConcurrentTransitions() {
	request := s.newRequest()
	s.Require().NoError(s.store.Create(context.Background(), request))

	const goroutines = 50
	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			loaded, err := s.store.FindByID(context.Background(), request.ID)
			if err != nil {
				return
			}
			if err := loaded.ScheduleInterview(id.NewInterviewID(), nil); err != nil {
				conflictCount.Add(1)
				return
			}
			switch err := s.store.Update(context.Background(), loaded); {
			case err == nil:
				successCount.Add(1)
			default:
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one transition should commit")
	s.Equal(int32(goroutines-1), conflictCount.Load())

	found, err := s.store.FindByID(context.Background(), request.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Interview, "exactly one interview row exists")
}

func (s *InMemoryStoreSuite) TestAnimalRestrictLookup() {
	request := s.newRequest()
	s.Require().NoError(s.store.Create(context.Background(), request))

	active, err := s.store.HasActiveForAnimal(context.Background(), request.AnimalID)
	s.Require().NoError(err)
	s.True(active)

	s.Require().NoError(request.Cancel())
	s.Require().NoError(s.store.Update(context.Background(), request))

	active, err = s.store.HasActiveForAnimal(context.Background(), request.AnimalID)
	s.Require().NoError(err)
	s.False(active)
}

func (s *InMemoryStoreSuite) TestCountByStatus() {
	first := s.newRequest()
	second := s.newRequest()
	s.Require().NoError(s.store.Create(context.Background(), first))
	s.Require().NoError(s.store.Create(context.Background(), second))

	s.Require().NoError(second.Cancel())
	s.Require().NoError(s.store.Update(context.Background(), second))

	counts, err := s.store.CountByStatus(context.Background())
	s.Require().NoError(err)
	s.Equal(1, counts[models.StatusRequested])
	s.Equal(1, counts[models.StatusCancelled])
}
