package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	shelterModel "shelterhub/internal/shelter/models"
	"shelterhub/internal/transport/http/shared"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

// ShelterService defines the shelter management operations the transport
// needs.
type ShelterService interface {
	CreateShelter(ctx context.Context, actorID id.UserID, shelter *shelterModel.Shelter) error
	GetShelter(ctx context.Context, shelterID id.ShelterID) (*shelterModel.Shelter, error)
	ListShelters(ctx context.Context) ([]*shelterModel.Shelter, error)
	DeleteShelter(ctx context.Context, actorID id.UserID, shelterID id.ShelterID) error
	AddCategory(ctx context.Context, actorID id.UserID, category *shelterModel.Category) error
	ListCategories(ctx context.Context, shelterID id.ShelterID) ([]*shelterModel.Category, error)
	DeleteCategory(ctx context.Context, actorID id.UserID, categoryID id.CategoryID) error
	AddAnimal(ctx context.Context, actorID id.UserID, animal *shelterModel.Animal) error
	ListAnimals(ctx context.Context, shelterID id.ShelterID) ([]*shelterModel.Animal, error)
	DeleteAnimal(ctx context.Context, actorID id.UserID, animalID id.AnimalID) error
}

// ShelterHandler handles shelter, category and animal endpoints.
type ShelterHandler struct {
	shelters ShelterService
	logger   *slog.Logger
}

func NewShelterHandler(shelters ShelterService, logger *slog.Logger) *ShelterHandler {
	return &ShelterHandler{shelters: shelters, logger: logger}
}

type createShelterRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Phone       string `json:"phone,omitempty"`
	Description string `json:"description,omitempty"`
}

type shelterResponse struct {
	ID          id.ShelterID `json:"id"`
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	Phone       string       `json:"phone,omitempty"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func toShelterResponse(shelter *shelterModel.Shelter) shelterResponse {
	return shelterResponse{
		ID:          shelter.ID,
		Name:        shelter.Name,
		Location:    shelter.Location,
		Phone:       shelter.Phone,
		Description: shelter.Description,
		CreatedAt:   shelter.CreatedAt,
	}
}

func (h *ShelterHandler) handleCreateShelter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req createShelterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	shelter, err := shelterModel.NewShelter(id.NewShelterID(), req.Name, req.Location, req.Phone, req.Description, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.shelters.CreateShelter(ctx, actorID, shelter); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toShelterResponse(shelter))
}

func (h *ShelterHandler) handleListShelters(w http.ResponseWriter, r *http.Request) {
	shelters, err := h.shelters.ListShelters(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]shelterResponse, 0, len(shelters))
	for _, shelter := range shelters {
		out = append(out, toShelterResponse(shelter))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *ShelterHandler) handleGetShelter(w http.ResponseWriter, r *http.Request) {
	shelterID, err := id.ParseShelterID(chi.URLParam(r, "shelterID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shelter id"))
		return
	}
	shelter, err := h.shelters.GetShelter(r.Context(), shelterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toShelterResponse(shelter))
}

func (h *ShelterHandler) handleDeleteShelter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shelterID, err := id.ParseShelterID(chi.URLParam(r, "shelterID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shelter id"))
		return
	}
	if err := h.shelters.DeleteShelter(ctx, actorID, shelterID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID        id.CategoryID `json:"id"`
	Name      string        `json:"name"`
	ShelterID id.ShelterID  `json:"shelter_id"`
}

func toCategoryResponse(category *shelterModel.Category) categoryResponse {
	return categoryResponse{ID: category.ID, Name: category.Name, ShelterID: category.ShelterID}
}

func (h *ShelterHandler) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shelterID, err := id.ParseShelterID(chi.URLParam(r, "shelterID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shelter id"))
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	category := &shelterModel.Category{ID: id.NewCategoryID(), Name: req.Name, ShelterID: shelterID}
	if err := h.shelters.AddCategory(ctx, actorID, category); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *ShelterHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	shelterID, err := id.ParseShelterID(chi.URLParam(r, "shelterID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shelter id"))
		return
	}
	categories, err := h.shelters.ListCategories(r.Context(), shelterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, toCategoryResponse(category))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *ShelterHandler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	categoryID, err := id.ParseCategoryID(chi.URLParam(r, "categoryID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid category id"))
		return
	}
	if err := h.shelters.DeleteCategory(ctx, actorID, categoryID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createAnimalRequest struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Breed      string `json:"breed,omitempty"`
	CategoryID string `json:"category_id"`
}

type animalResponse struct {
	ID         id.AnimalID   `json:"id"`
	Name       string        `json:"name"`
	Age        int           `json:"age"`
	Breed      string        `json:"breed,omitempty"`
	State      string        `json:"state"`
	CategoryID id.CategoryID `json:"category_id"`
	ShelterID  id.ShelterID  `json:"shelter_id"`
}

func toAnimalResponse(animal *shelterModel.Animal) animalResponse {
	return animalResponse{
		ID:         animal.ID,
		Name:       animal.Name,
		Age:        animal.Age,
		Breed:      animal.Breed,
		State:      string(animal.State),
		CategoryID: animal.CategoryID,
		ShelterID:  animal.ShelterID,
	}
}

func (h *ShelterHandler) handleAddAnimal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shelterID, err := id.ParseShelterID(chi.URLParam(r, "shelterID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shelter id"))
		return
	}

	var req createAnimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	categoryID, err := id.ParseCategoryID(req.CategoryID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid category id"))
		return
	}

	animal, err := shelterModel.NewAnimal(id.NewAnimalID(), req.Name, req.Age, req.Breed, categoryID, shelterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.shelters.AddAnimal(ctx, actorID, animal); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toAnimalResponse(animal))
}

func (h *ShelterHandler) handleListAnimals(w http.ResponseWriter, r *http.Request) {
	shelterID, err := id.ParseShelterID(chi.URLParam(r, "shelterID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shelter id"))
		return
	}
	animals, err := h.shelters.ListAnimals(r.Context(), shelterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]animalResponse, 0, len(animals))
	for _, animal := range animals {
		out = append(out, toAnimalResponse(animal))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *ShelterHandler) handleDeleteAnimal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	animalID, err := id.ParseAnimalID(chi.URLParam(r, "animalID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid animal id"))
		return
	}
	if err := h.shelters.DeleteAnimal(ctx, actorID, animalID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
