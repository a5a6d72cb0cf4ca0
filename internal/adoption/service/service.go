// Package service implements the adoption workflow: request intake, interview
// scheduling, outcome recording and cancellation, with role checks and
// post-commit notification fan-out.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shelterhub/internal/adoption/models"
	identity "shelterhub/internal/identity/models"
	"shelterhub/internal/notify"
	"shelterhub/internal/platform/metrics"
	shelter "shelterhub/internal/shelter/models"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
	"shelterhub/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// RequestStore persists adoption requests. Update must reject stale versions
// so that two concurrent transitions cannot both win.
type RequestStore interface {
	Create(ctx context.Context, request *models.AdoptionRequest) error
	Update(ctx context.Context, request *models.AdoptionRequest) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.AdoptionRequest, error)
	ListByAdopter(ctx context.Context, adopterID id.UserID) ([]*models.AdoptionRequest, error)
	ListByShelter(ctx context.Context, shelterID id.ShelterID) ([]*models.AdoptionRequest, error)
	HasActiveForAnimal(ctx context.Context, animalID id.AnimalID) (bool, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}

// UserDirectory resolves the actors of the workflow.
type UserDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (*identity.User, error)
}

// AnimalCatalog resolves animals and records state changes when a request is
// approved.
type AnimalCatalog interface {
	FindByID(ctx context.Context, animalID id.AnimalID) (*shelter.Animal, error)
	Save(ctx context.Context, animal *shelter.Animal) error
}

// ShelterDirectory resolves shelters for projection enrichment.
type ShelterDirectory interface {
	FindByID(ctx context.Context, shelterID id.ShelterID) (*shelter.Shelter, error)
}

type Service struct {
	requests RequestStore
	users    UserDirectory
	animals  AnimalCatalog
	shelters ShelterDirectory
	notifier notify.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func New(
	requests RequestStore,
	users UserDirectory,
	animals AnimalCatalog,
	shelters ShelterDirectory,
	notifier notify.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		requests: requests,
		users:    users,
		animals:  animals,
		shelters: shelters,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRequest opens a new adoption request for the adopter and animal. The
// animal's shelter is captured on the request so later staff checks do not
// depend on the animal still existing.
func (s *Service) CreateRequest(ctx context.Context, adopterID id.UserID, animalID id.AnimalID) (*models.AdoptionRequest, error) {
	adopter, err := s.adopterByID(ctx, adopterID)
	if err != nil {
		return nil, err
	}
	animal, err := s.animals.FindByID(ctx, animalID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "animal does not exist")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up animal")
	}
	if animal.State == shelter.AnimalAdopted {
		return nil, dErrors.New(dErrors.CodeConflict, "animal has already been adopted")
	}

	request, err := models.NewRequest(id.NewRequestID(), adopter.ID, animal.ID, animal.ShelterID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, request); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "adopter already has an open request for this animal")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "animal does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create adoption request")
	}

	s.metrics.RequestsCreated.Inc()
	s.logger.InfoContext(ctx, "adoption request created",
		slog.String("request_id", request.ID.String()),
		slog.String("adopter_id", adopter.ID.String()),
		slog.String("animal_id", animal.ID.String()),
	)
	s.publishUpdate(request, animal.Name)
	return request, nil
}

// ScheduleInterview moves the request to InterviewScheduled. Only staff of the
// request's shelter may schedule, and a request carries at most one interview.
func (s *Service) ScheduleInterview(ctx context.Context, actorID id.UserID, requestID id.RequestID, date *time.Time) (*models.AdoptionRequest, error) {
	request, err := s.requestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireStaffOf(ctx, actorID, request.ShelterID); err != nil {
		return nil, err
	}
	if err := request.ScheduleInterview(id.NewInterviewID(), date); err != nil {
		return nil, err
	}
	return s.commit(ctx, request)
}

// RecordOutcome approves or denies a request that has completed its interview.
// Approval marks the animal adopted.
func (s *Service) RecordOutcome(ctx context.Context, actorID id.UserID, requestID id.RequestID, approved bool) (*models.AdoptionRequest, error) {
	request, err := s.requestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireStaffOf(ctx, actorID, request.ShelterID); err != nil {
		return nil, err
	}
	if err := request.RecordOutcome(approved, s.now()); err != nil {
		return nil, err
	}
	request, err = s.commit(ctx, request)
	if err != nil {
		return nil, err
	}

	if approved {
		animal, err := s.animals.FindByID(ctx, request.AnimalID)
		if err == nil {
			animal.State = shelter.AnimalAdopted
			if err := s.animals.Save(ctx, animal); err != nil {
				s.logger.ErrorContext(ctx, "mark animal adopted",
					slog.String("animal_id", animal.ID.String()), slog.Any("error", err))
			}
		}
	}
	return request, nil
}

// Cancel withdraws a non-terminal request. Only the owning adopter may
// cancel, and a deactivated account cannot ride out its remaining token.
func (s *Service) Cancel(ctx context.Context, actorID id.UserID, requestID id.RequestID) (*models.AdoptionRequest, error) {
	adopter, err := s.adopterByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	request, err := s.requestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.AdopterID != adopter.ID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the requesting adopter may cancel")
	}
	if err := request.Cancel(); err != nil {
		return nil, err
	}
	return s.commit(ctx, request)
}

// GetRequest returns the enriched projection of a single request. Adopters see
// only their own requests; staff see requests of their shelter.
func (s *Service) GetRequest(ctx context.Context, actorID id.UserID, requestID id.RequestID) (*models.Projection, error) {
	request, err := s.requestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireViewAccess(ctx, actorID, request); err != nil {
		return nil, err
	}
	projection, err := s.project(ctx, request)
	if err != nil {
		return nil, err
	}
	return &projection, nil
}

func (s *Service) ListByAdopter(ctx context.Context, adopterID id.UserID) ([]models.Projection, error) {
	requests, err := s.requests.ListByAdopter(ctx, adopterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list requests by adopter")
	}
	return s.projectAll(ctx, requests)
}

func (s *Service) ListByShelter(ctx context.Context, actorID id.UserID, shelterID id.ShelterID) ([]models.Projection, error) {
	if err := s.requireStaffOf(ctx, actorID, shelterID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByShelter(ctx, shelterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list requests by shelter")
	}
	return s.projectAll(ctx, requests)
}

// commit persists a transitioned request, counts the transition and notifies
// the adopter. A stale version surfaces as a conflict so the caller can retry
// against fresh state.
func (s *Service) commit(ctx context.Context, request *models.AdoptionRequest) (*models.AdoptionRequest, error) {
	if err := s.requests.Update(ctx, request); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.TransitionConflicts.Inc()
			return nil, dErrors.New(dErrors.CodeConflict, "request was modified concurrently")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "adoption request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update adoption request")
	}

	s.metrics.Transitions.WithLabelValues(string(request.Status)).Inc()
	s.logger.InfoContext(ctx, "adoption request transitioned",
		slog.String("request_id", request.ID.String()),
		slog.String("status", string(request.Status)),
	)

	animalName := ""
	if animal, err := s.animals.FindByID(ctx, request.AnimalID); err == nil {
		animalName = animal.Name
	}
	s.publishUpdate(request, animalName)
	return request, nil
}

func (s *Service) publishUpdate(request *models.AdoptionRequest, animalName string) {
	s.notifier.Enqueue(notify.NewRequestUpdate(request.AdopterID.String(), notify.RequestUpdatePayload{
		RequestID:  request.ID,
		AnimalName: animalName,
		Status:     string(request.Status),
	}))
}

func (s *Service) requestByID(ctx context.Context, requestID id.RequestID) (*models.AdoptionRequest, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "adoption request not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up adoption request")
	}
	return request, nil
}

func (s *Service) adopterByID(ctx context.Context, adopterID id.UserID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, adopterID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "adopter does not exist")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up adopter")
	}
	if _, ok := user.Adopter(); !ok {
		return nil, dErrors.New(dErrors.CodeForbidden, "only adopters may open adoption requests")
	}
	if !user.Activated {
		return nil, dErrors.New(dErrors.CodeForbidden, "account is deactivated")
	}
	return user, nil
}

func (s *Service) requireStaffOf(ctx context.Context, actorID id.UserID, shelterID id.ShelterID) error {
	user, err := s.users.FindByID(ctx, actorID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeForbidden, "unknown actor")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "look up actor")
	}
	if _, ok := user.Staff(); !ok {
		return dErrors.New(dErrors.CodeForbidden, "shelter staff role required")
	}
	if !user.Activated {
		return dErrors.New(dErrors.CodeForbidden, "account is deactivated")
	}
	if !user.BelongsToShelter(shelterID) {
		return dErrors.New(dErrors.CodeForbidden, "staff member belongs to a different shelter")
	}
	return nil
}

func (s *Service) requireViewAccess(ctx context.Context, actorID id.UserID, request *models.AdoptionRequest) error {
	if request.AdopterID == actorID {
		return nil
	}
	user, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return dErrors.New(dErrors.CodeForbidden, "unknown actor")
	}
	if _, ok := user.Admin(); ok {
		return nil
	}
	if _, ok := user.Staff(); ok && user.BelongsToShelter(request.ShelterID) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "not allowed to view this request")
}

func (s *Service) project(ctx context.Context, request *models.AdoptionRequest) (models.Projection, error) {
	shelterName, animalName, adopterName := "", "", ""
	if sh, err := s.shelters.FindByID(ctx, request.ShelterID); err == nil {
		shelterName = sh.Name
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Projection{}, dErrors.Wrap(err, dErrors.CodeInternal, "look up shelter")
	}
	if animal, err := s.animals.FindByID(ctx, request.AnimalID); err == nil {
		animalName = animal.Name
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Projection{}, dErrors.Wrap(err, dErrors.CodeInternal, "look up animal")
	}
	if adopter, err := s.users.FindByID(ctx, request.AdopterID); err == nil {
		adopterName = adopter.Username
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Projection{}, dErrors.Wrap(err, dErrors.CodeInternal, "look up adopter")
	}
	return request.Project(shelterName, animalName, adopterName), nil
}

func (s *Service) projectAll(ctx context.Context, requests []*models.AdoptionRequest) ([]models.Projection, error) {
	out := make([]models.Projection, 0, len(requests))
	for _, request := range requests {
		projection, err := s.project(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("project request %s: %w", request.ID, err)
		}
		out = append(out, projection)
	}
	return out, nil
}
