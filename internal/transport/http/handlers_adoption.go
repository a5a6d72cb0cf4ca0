package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	adoptionModel "shelterhub/internal/adoption/models"
	"shelterhub/internal/transport/http/shared"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

// AdoptionService defines the workflow operations the transport needs.
type AdoptionService interface {
	CreateRequest(ctx context.Context, adopterID id.UserID, animalID id.AnimalID) (*adoptionModel.AdoptionRequest, error)
	ScheduleInterview(ctx context.Context, actorID id.UserID, requestID id.RequestID, date *time.Time) (*adoptionModel.AdoptionRequest, error)
	RecordOutcome(ctx context.Context, actorID id.UserID, requestID id.RequestID, approved bool) (*adoptionModel.AdoptionRequest, error)
	Cancel(ctx context.Context, actorID id.UserID, requestID id.RequestID) (*adoptionModel.AdoptionRequest, error)
	GetRequest(ctx context.Context, actorID id.UserID, requestID id.RequestID) (*adoptionModel.Projection, error)
	ListByAdopter(ctx context.Context, adopterID id.UserID) ([]adoptionModel.Projection, error)
	ListByShelter(ctx context.Context, actorID id.UserID, shelterID id.ShelterID) ([]adoptionModel.Projection, error)
}

// AdoptionHandler handles the adoption request workflow endpoints.
type AdoptionHandler struct {
	adoptions AdoptionService
	logger    *slog.Logger
}

func NewAdoptionHandler(adoptions AdoptionService, logger *slog.Logger) *AdoptionHandler {
	return &AdoptionHandler{adoptions: adoptions, logger: logger}
}

type createRequestRequest struct {
	AnimalID string `json:"animal_id"`
}

type scheduleInterviewRequest struct {
	InterviewDate *time.Time `json:"interview_date,omitempty"`
}

type outcomeRequest struct {
	Approved bool `json:"approved"`
}

type requestStatusResponse struct {
	RequestID id.RequestID `json:"request_id"`
	Status    string       `json:"status"`
	Version   int          `json:"version"`
}

func toStatusResponse(request *adoptionModel.AdoptionRequest) requestStatusResponse {
	return requestStatusResponse{
		RequestID: request.ID,
		Status:    string(request.Status),
		Version:   request.Version,
	}
}

func (h *AdoptionHandler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	adopterID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	animalID, err := id.ParseAnimalID(req.AnimalID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid animal id"))
		return
	}

	request, err := h.adoptions.CreateRequest(ctx, adopterID, animalID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toStatusResponse(request))
}

func (h *AdoptionHandler) handleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	var req scheduleInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	request, err := h.adoptions.ScheduleInterview(ctx, actorID, requestID, req.InterviewDate)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toStatusResponse(request))
}

func (h *AdoptionHandler) handleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	request, err := h.adoptions.RecordOutcome(ctx, actorID, requestID, req.Approved)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toStatusResponse(request))
}

func (h *AdoptionHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	request, err := h.adoptions.Cancel(ctx, actorID, requestID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toStatusResponse(request))
}

func (h *AdoptionHandler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	projection, err := h.adoptions.GetRequest(ctx, actorID, requestID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, projection)
}

func (h *AdoptionHandler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	adopterID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	projections, err := h.adoptions.ListByAdopter(ctx, adopterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, projections)
}

func (h *AdoptionHandler) handleListByShelter(w http.ResponseWriter, r *http.Request) {
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

	projections, err := h.adoptions.ListByShelter(ctx, actorID, shelterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, projections)
}
