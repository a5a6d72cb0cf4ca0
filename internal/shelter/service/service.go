// Package service manages shelters, their categories and animals, including
// the deletion rules: deleting a shelter cascades to its staff and categories
// but is refused while it still houses animals, and deleting an animal is
// refused while an adoption request for it is still open.
package service

import (
	"context"
	"errors"
	"log/slog"

	identity "shelterhub/internal/identity/models"
	"shelterhub/internal/shelter/models"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
	"shelterhub/pkg/platform/sentinel"
)

type ShelterStore interface {
	Save(ctx context.Context, shelter *models.Shelter) error
	FindByID(ctx context.Context, shelterID id.ShelterID) (*models.Shelter, error)
	Delete(ctx context.Context, shelterID id.ShelterID) error
	List(ctx context.Context) ([]*models.Shelter, error)
}

type CategoryStore interface {
	Save(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, categoryID id.CategoryID) (*models.Category, error)
	ListByShelter(ctx context.Context, shelterID id.ShelterID) ([]*models.Category, error)
	Delete(ctx context.Context, categoryID id.CategoryID) error
	DeleteByShelter(ctx context.Context, shelterID id.ShelterID) (int, error)
}

type AnimalStore interface {
	Save(ctx context.Context, animal *models.Animal) error
	FindByID(ctx context.Context, animalID id.AnimalID) (*models.Animal, error)
	ListByShelter(ctx context.Context, shelterID id.ShelterID) ([]*models.Animal, error)
	CountByShelter(ctx context.Context, shelterID id.ShelterID) (int, error)
	Delete(ctx context.Context, animalID id.AnimalID) error
	DeleteByCategory(ctx context.Context, categoryID id.CategoryID) (int, error)
}

// StaffDirectory resolves actors and removes a shelter's staff accounts when
// the shelter itself is removed.
type StaffDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (*identity.User, error)
	DeleteByShelter(ctx context.Context, shelterID id.ShelterID) (int, error)
}

// RequestGuard answers whether an animal is referenced by an open adoption
// request.
type RequestGuard interface {
	HasActiveForAnimal(ctx context.Context, animalID id.AnimalID) (bool, error)
}

type Service struct {
	shelters   ShelterStore
	categories CategoryStore
	animals    AnimalStore
	staff      StaffDirectory
	requests   RequestGuard
	logger     *slog.Logger
}

func New(
	shelters ShelterStore,
	categories CategoryStore,
	animals AnimalStore,
	staff StaffDirectory,
	requests RequestGuard,
	logger *slog.Logger,
) *Service {
	return &Service{
		shelters:   shelters,
		categories: categories,
		animals:    animals,
		staff:      staff,
		requests:   requests,
		logger:     logger,
	}
}

func (s *Service) CreateShelter(ctx context.Context, actorID id.UserID, shelter *models.Shelter) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.shelters.Save(ctx, shelter); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "a shelter with that name already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "save shelter")
	}
	s.logger.InfoContext(ctx, "shelter created",
		slog.String("shelter_id", shelter.ID.String()), slog.String("name", shelter.Name))
	return nil
}

func (s *Service) GetShelter(ctx context.Context, shelterID id.ShelterID) (*models.Shelter, error) {
	shelter, err := s.shelters.FindByID(ctx, shelterID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "shelter not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up shelter")
	}
	return shelter, nil
}

func (s *Service) ListShelters(ctx context.Context) ([]*models.Shelter, error) {
	shelters, err := s.shelters.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list shelters")
	}
	return shelters, nil
}

// DeleteShelter removes the shelter, its categories and its staff accounts.
// It is refused while any animal is still registered to the shelter, so no
// animal record can end up pointing at a missing shelter.
func (s *Service) DeleteShelter(ctx context.Context, actorID id.UserID, shelterID id.ShelterID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.GetShelter(ctx, shelterID); err != nil {
		return err
	}

	housed, err := s.animals.CountByShelter(ctx, shelterID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "count housed animals")
	}
	if housed > 0 {
		return dErrors.Newf(dErrors.CodeConflict, "shelter still houses %d animals", housed)
	}

	staffRemoved, err := s.staff.DeleteByShelter(ctx, shelterID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "remove shelter staff")
	}
	categoriesRemoved, err := s.categories.DeleteByShelter(ctx, shelterID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "remove shelter categories")
	}
	if err := s.shelters.Delete(ctx, shelterID); err != nil {
		if errors.Is(err, sentinel.ErrRestricted) {
			return dErrors.New(dErrors.CodeConflict, "shelter still houses animals")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete shelter")
	}

	s.logger.InfoContext(ctx, "shelter deleted",
		slog.String("shelter_id", shelterID.String()),
		slog.Int("staff_removed", staffRemoved),
		slog.Int("categories_removed", categoriesRemoved),
	)
	return nil
}

func (s *Service) AddCategory(ctx context.Context, actorID id.UserID, category *models.Category) error {
	if err := s.requireManagerOf(ctx, actorID, category.ShelterID); err != nil {
		return err
	}
	if _, err := s.GetShelter(ctx, category.ShelterID); err != nil {
		return err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save category")
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context, shelterID id.ShelterID) ([]*models.Category, error) {
	categories, err := s.categories.ListByShelter(ctx, shelterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list categories")
	}
	return categories, nil
}

// DeleteCategory removes the category and the animals filed under it. It is
// refused while any of those animals has an open adoption request.
func (s *Service) DeleteCategory(ctx context.Context, actorID id.UserID, categoryID id.CategoryID) error {
	category, err := s.categories.FindByID(ctx, categoryID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "category not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "look up category")
	}
	if err := s.requireManagerOf(ctx, actorID, category.ShelterID); err != nil {
		return err
	}

	housed, err := s.animals.ListByShelter(ctx, category.ShelterID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "list shelter animals")
	}
	for _, animal := range housed {
		if animal.CategoryID != categoryID {
			continue
		}
		open, err := s.requests.HasActiveForAnimal(ctx, animal.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "check open requests")
		}
		if open {
			return dErrors.Newf(dErrors.CodeConflict, "animal %s in this category has an open adoption request", animal.Name)
		}
	}

	removed, err := s.animals.DeleteByCategory(ctx, categoryID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "remove category animals")
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete category")
	}

	s.logger.InfoContext(ctx, "category deleted",
		slog.String("category_id", categoryID.String()), slog.Int("animals_removed", removed))
	return nil
}

func (s *Service) AddAnimal(ctx context.Context, actorID id.UserID, animal *models.Animal) error {
	if err := s.requireStaffOf(ctx, actorID, animal.ShelterID); err != nil {
		return err
	}
	category, err := s.categories.FindByID(ctx, animal.CategoryID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeInvalidInput, "category does not exist")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "look up category")
	}
	if category.ShelterID != animal.ShelterID {
		return dErrors.New(dErrors.CodeInvalidInput, "category belongs to a different shelter")
	}
	if err := s.animals.Save(ctx, animal); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save animal")
	}
	return nil
}

func (s *Service) ListAnimals(ctx context.Context, shelterID id.ShelterID) ([]*models.Animal, error) {
	animals, err := s.animals.ListByShelter(ctx, shelterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list animals")
	}
	return animals, nil
}

// DeleteAnimal removes the animal unless an adoption request for it is still
// open. Terminal requests keep their animal reference for history, so only
// open ones block deletion.
func (s *Service) DeleteAnimal(ctx context.Context, actorID id.UserID, animalID id.AnimalID) error {
	animal, err := s.animals.FindByID(ctx, animalID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "animal not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "look up animal")
	}
	if err := s.requireStaffOf(ctx, actorID, animal.ShelterID); err != nil {
		return err
	}

	open, err := s.requests.HasActiveForAnimal(ctx, animalID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check open requests")
	}
	if open {
		return dErrors.New(dErrors.CodeConflict, "animal has an open adoption request")
	}

	if err := s.animals.Delete(ctx, animalID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete animal")
	}
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, actorID id.UserID) error {
	user, err := s.actorByID(ctx, actorID)
	if err != nil {
		return err
	}
	if _, ok := user.Admin(); !ok {
		return dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	return nil
}

// requireStaffOf admits the shelter's own staff as well as admins.
func (s *Service) requireStaffOf(ctx context.Context, actorID id.UserID, shelterID id.ShelterID) error {
	user, err := s.actorByID(ctx, actorID)
	if err != nil {
		return err
	}
	if _, ok := user.Admin(); ok {
		return nil
	}
	if _, ok := user.Staff(); !ok {
		return dErrors.New(dErrors.CodeForbidden, "shelter staff role required")
	}
	if !user.BelongsToShelter(shelterID) {
		return dErrors.New(dErrors.CodeForbidden, "staff member belongs to a different shelter")
	}
	return nil
}

// requireManagerOf admits the shelter's managers as well as admins.
func (s *Service) requireManagerOf(ctx context.Context, actorID id.UserID, shelterID id.ShelterID) error {
	user, err := s.actorByID(ctx, actorID)
	if err != nil {
		return err
	}
	if _, ok := user.Admin(); ok {
		return nil
	}
	profile, ok := user.Staff()
	if !ok || profile.StaffType != identity.StaffTypeManager {
		return dErrors.New(dErrors.CodeForbidden, "shelter manager role required")
	}
	if !user.BelongsToShelter(shelterID) {
		return dErrors.New(dErrors.CodeForbidden, "staff member belongs to a different shelter")
	}
	return nil
}

func (s *Service) actorByID(ctx context.Context, actorID id.UserID) (*identity.User, error) {
	user, err := s.staff.FindByID(ctx, actorID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeForbidden, "unknown actor")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up actor")
	}
	if !user.Activated {
		return nil, dErrors.New(dErrors.CodeForbidden, "account is deactivated")
	}
	return user, nil
}
