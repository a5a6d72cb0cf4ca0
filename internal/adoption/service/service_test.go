package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shelterhub/internal/adoption/models"
	"shelterhub/internal/adoption/service/mocks"
	identity "shelterhub/internal/identity/models"
	"shelterhub/internal/notify"
	"shelterhub/internal/platform/metrics"
	shelter "shelterhub/internal/shelter/models"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
	"shelterhub/pkg/platform/sentinel"
)

type capturePublisher struct {
	events []notify.Event
}

func (p *capturePublisher) Enqueue(event notify.Event) {
	p.events = append(p.events, event)
}

type fixture struct {
	service   *Service
	requests  *mocks.MockRequestStore
	users     *mocks.MockUserDirectory
	animals   *mocks.MockAnimalCatalog
	shelters  *mocks.MockShelterDirectory
	published *capturePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		requests:  mocks.NewMockRequestStore(ctrl),
		users:     mocks.NewMockUserDirectory(ctrl),
		animals:   mocks.NewMockAnimalCatalog(ctrl),
		shelters:  mocks.NewMockShelterDirectory(ctrl),
		published: &capturePublisher{},
	}
	f.service = New(
		f.requests, f.users, f.animals, f.shelters, f.published,
		metrics.New(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func newTestAdopter(t *testing.T) *identity.User {
	t.Helper()
	adopter, err := identity.NewAdopter(id.NewUserID(), "jane", "jane@example.com",
		identity.AdopterProfile{Address: "12 Elm St", Phone: "555-0101"})
	require.NoError(t, err)
	return adopter
}

func newTestStaff(t *testing.T, shelterID id.ShelterID) *identity.User {
	t.Helper()
	staff, err := identity.NewShelterStaff(id.NewUserID(), "omar", "omar@example.com",
		identity.StaffProfile{Phone: "555-0110", ShelterID: shelterID, StaffType: identity.StaffTypeInterviewer})
	require.NoError(t, err)
	return staff
}

func newTestAnimal(t *testing.T, shelterID id.ShelterID) *shelter.Animal {
	t.Helper()
	animal, err := shelter.NewAnimal(id.NewAnimalID(), "Biscuit", 3, "beagle", id.NewCategoryID(), shelterID)
	require.NoError(t, err)
	return animal
}

func newStoredRequest(t *testing.T, adopterID id.UserID, animalID id.AnimalID, shelterID id.ShelterID) *models.AdoptionRequest {
	t.Helper()
	request, err := models.NewRequest(id.NewRequestID(), adopterID, animalID, shelterID, time.Now())
	require.NoError(t, err)
	return request
}

func TestCreateRequest(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	adopter := newTestAdopter(t)
	animal := newTestAnimal(t, shelterID)

	f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)
	f.animals.EXPECT().FindByID(gomock.Any(), animal.ID).Return(animal, nil)
	f.requests.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	request, err := f.service.CreateRequest(context.Background(), adopter.ID, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequested, request.Status)
	assert.Equal(t, adopter.ID, request.AdopterID)
	assert.Equal(t, shelterID, request.ShelterID)

	require.Len(t, f.published.events, 1)
	assert.Equal(t, notify.EventRequestStatusChanged, f.published.events[0].Type)
	assert.Equal(t, adopter.ID.String(), f.published.events[0].Recipient)
}

func TestCreateRequest_NonAdopterForbidden(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	staff := newTestStaff(t, shelterID)

	f.users.EXPECT().FindByID(gomock.Any(), staff.ID).Return(staff, nil)

	_, err := f.service.CreateRequest(context.Background(), staff.ID, id.NewAnimalID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	assert.Empty(t, f.published.events)
}

func TestCreateRequest_UnknownAdopterIsValidationError(t *testing.T) {
	f := newFixture(t)
	adopterID := id.NewUserID()

	f.users.EXPECT().FindByID(gomock.Any(), adopterID).Return(nil, sentinel.ErrNotFound)

	_, err := f.service.CreateRequest(context.Background(), adopterID, id.NewAnimalID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCreateRequest_AdoptedAnimalConflicts(t *testing.T) {
	f := newFixture(t)
	adopter := newTestAdopter(t)
	animal := newTestAnimal(t, id.NewShelterID())
	animal.State = shelter.AnimalAdopted

	f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)
	f.animals.EXPECT().FindByID(gomock.Any(), animal.ID).Return(animal, nil)

	_, err := f.service.CreateRequest(context.Background(), adopter.ID, animal.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestCreateRequest_DuplicateActivePair(t *testing.T) {
	f := newFixture(t)
	adopter := newTestAdopter(t)
	animal := newTestAnimal(t, id.NewShelterID())

	f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)
	f.animals.EXPECT().FindByID(gomock.Any(), animal.ID).Return(animal, nil)
	f.requests.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	_, err := f.service.CreateRequest(context.Background(), adopter.ID, animal.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Empty(t, f.published.events)
}

func TestCreateRequest_AnimalRemovedBeforeInsert(t *testing.T) {
	f := newFixture(t)
	adopter := newTestAdopter(t)
	animal := newTestAnimal(t, id.NewShelterID())

	f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)
	f.animals.EXPECT().FindByID(gomock.Any(), animal.ID).Return(animal, nil)
	f.requests.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)

	_, err := f.service.CreateRequest(context.Background(), adopter.ID, animal.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestScheduleInterview(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	staff := newTestStaff(t, shelterID)
	animal := newTestAnimal(t, shelterID)
	stored := newStoredRequest(t, id.NewUserID(), animal.ID, shelterID)
	date := time.Now().Add(72 * time.Hour)

	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.users.EXPECT().FindByID(gomock.Any(), staff.ID).Return(staff, nil)
	f.requests.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	f.animals.EXPECT().FindByID(gomock.Any(), animal.ID).Return(animal, nil)

	request, err := f.service.ScheduleInterview(context.Background(), staff.ID, stored.ID, &date)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterviewScheduled, request.Status)
	require.NotNil(t, request.Interview)
	assert.Equal(t, request.ID, request.Interview.RequestID)

	require.Len(t, f.published.events, 1)
	assert.Equal(t, stored.AdopterID.String(), f.published.events[0].Recipient)
}

func TestScheduleInterview_DeactivatedStaffForbidden(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	staff := newTestStaff(t, shelterID)
	staff.Activated = false
	stored := newStoredRequest(t, id.NewUserID(), id.NewAnimalID(), shelterID)

	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.users.EXPECT().FindByID(gomock.Any(), staff.ID).Return(staff, nil)

	_, err := f.service.ScheduleInterview(context.Background(), staff.ID, stored.ID, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	assert.Equal(t, models.StatusRequested, stored.Status)
}

func TestRecordOutcome_DeactivatedStaffForbidden(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	staff := newTestStaff(t, shelterID)
	staff.Activated = false
	stored := newStoredRequest(t, id.NewUserID(), id.NewAnimalID(), shelterID)
	require.NoError(t, stored.ScheduleInterview(id.NewInterviewID(), nil))

	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.users.EXPECT().FindByID(gomock.Any(), staff.ID).Return(staff, nil)

	_, err := f.service.RecordOutcome(context.Background(), staff.ID, stored.ID, true)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestScheduleInterview_WrongShelterForbidden(t *testing.T) {
	f := newFixture(t)
	staff := newTestStaff(t, id.NewShelterID())
	stored := newStoredRequest(t, id.NewUserID(), id.NewAnimalID(), id.NewShelterID())

	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.users.EXPECT().FindByID(gomock.Any(), staff.ID).Return(staff, nil)

	_, err := f.service.ScheduleInterview(context.Background(), staff.ID, stored.ID, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestRecordOutcome_ApproveMarksAnimalAdopted(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	staff := newTestStaff(t, shelterID)
	animal := newTestAnimal(t, shelterID)
	stored := newStoredRequest(t, id.NewUserID(), animal.ID, shelterID)
	require.NoError(t, stored.ScheduleInterview(id.NewInterviewID(), nil))

	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.users.EXPECT().FindByID(gomock.Any(), staff.ID).Return(staff, nil)
	f.requests.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	f.animals.EXPECT().FindByID(gomock.Any(), animal.ID).Return(animal, nil).Times(2)
	f.animals.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, saved *shelter.Animal) error {
			assert.Equal(t, shelter.AnimalAdopted, saved.State)
			return nil
		})

	request, err := f.service.RecordOutcome(context.Background(), staff.ID, stored.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, request.Status)
	require.NotNil(t, request.ApprovedAt)
}

func TestRecordOutcome_RequiresScheduledInterview(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	staff := newTestStaff(t, shelterID)
	stored := newStoredRequest(t, id.NewUserID(), id.NewAnimalID(), shelterID)

	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.users.EXPECT().FindByID(gomock.Any(), staff.ID).Return(staff, nil)

	_, err := f.service.RecordOutcome(context.Background(), staff.ID, stored.ID, false)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Empty(t, f.published.events)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	adopter := newTestAdopter(t)
	stored := newStoredRequest(t, adopter.ID, id.NewAnimalID(), id.NewShelterID())

	f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)
	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.requests.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	f.animals.EXPECT().FindByID(gomock.Any(), stored.AnimalID).Return(nil, sentinel.ErrNotFound)

	request, err := f.service.Cancel(context.Background(), adopter.ID, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, request.Status)
}

func TestCancel_OnlyOwningAdopter(t *testing.T) {
	f := newFixture(t)
	stranger := newTestAdopter(t)
	stored := newStoredRequest(t, id.NewUserID(), id.NewAnimalID(), id.NewShelterID())

	f.users.EXPECT().FindByID(gomock.Any(), stranger.ID).Return(stranger, nil)
	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)

	_, err := f.service.Cancel(context.Background(), stranger.ID, stored.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCancel_DeactivatedAdopterForbidden(t *testing.T) {
	f := newFixture(t)
	adopter := newTestAdopter(t)
	adopter.Activated = false
	stored := newStoredRequest(t, adopter.ID, id.NewAnimalID(), id.NewShelterID())

	f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)

	_, err := f.service.Cancel(context.Background(), adopter.ID, stored.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCommit_StaleVersionIsConflict(t *testing.T) {
	f := newFixture(t)
	adopter := newTestAdopter(t)
	stored := newStoredRequest(t, adopter.ID, id.NewAnimalID(), id.NewShelterID())

	f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)
	f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
	f.requests.EXPECT().Update(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	_, err := f.service.Cancel(context.Background(), adopter.ID, stored.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Empty(t, f.published.events)
}

func TestGetRequest_AccessRules(t *testing.T) {
	f := newFixture(t)
	shelterID := id.NewShelterID()
	adopter := newTestAdopter(t)
	animal := newTestAnimal(t, shelterID)
	stored := newStoredRequest(t, adopter.ID, animal.ID, shelterID)

	t.Run("owner sees own request", func(t *testing.T) {
		f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
		f.shelters.EXPECT().FindByID(gomock.Any(), shelterID).Return(&shelter.Shelter{ID: shelterID, Name: "North Paws"}, nil)
		f.animals.EXPECT().FindByID(gomock.Any(), animal.ID).Return(animal, nil)
		f.users.EXPECT().FindByID(gomock.Any(), adopter.ID).Return(adopter, nil)

		projection, err := f.service.GetRequest(context.Background(), adopter.ID, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, "North Paws", projection.Shelter)
		assert.Equal(t, "Biscuit", projection.Animal)
		assert.Equal(t, "jane", projection.Adopter)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		stranger := newTestAdopter(t)
		f.requests.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)
		f.users.EXPECT().FindByID(gomock.Any(), stranger.ID).Return(stranger, nil)

		_, err := f.service.GetRequest(context.Background(), stranger.ID, stored.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
