package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	identityModel "shelterhub/internal/identity/models"
	identityService "shelterhub/internal/identity/service"
	"shelterhub/internal/platform/middleware"
	jwttoken "shelterhub/internal/token"
	"shelterhub/internal/transport/http/shared"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

// IdentityService defines the account operations the transport needs.
type IdentityService interface {
	Register(ctx context.Context, input identityService.RegisterInput) (*identityModel.User, error)
	Authenticate(ctx context.Context, email, password, userAgent string) (string, *identityModel.User, error)
	Deactivate(ctx context.Context, actorID, userID id.UserID) error
	Profile(ctx context.Context, userID id.UserID) (identityModel.UserProfile, error)
}

// IdentityHandler handles registration, login and account endpoints.
type IdentityHandler struct {
	identity IdentityService
	logger   *slog.Logger
}

func NewIdentityHandler(identity IdentityService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{identity: identity, logger: logger}
}

type registerRequest struct {
	Role      string `json:"role"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AdminType string `json:"admin_type,omitempty"`
	StaffType string `json:"staff_type,omitempty"`
	ShelterID string `json:"shelter_id,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	Profile     json.RawMessage `json:"profile"`
}

func (h *IdentityHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.identity.Register(ctx, identityService.RegisterInput{
		Role:      req.Role,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Address:   req.Address,
		Phone:     req.Phone,
		AdminType: req.AdminType,
		StaffType: req.StaffType,
		ShelterID: req.ShelterID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration refused",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx))
		shared.WriteError(w, err)
		return
	}

	writeProfile(w, http.StatusCreated, identityModel.ProfileOf(user))
}

func (h *IdentityHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	accessToken, user, err := h.identity.Authenticate(ctx, req.Email, req.Password, middleware.GetUserAgent(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "login refused",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx))
		shared.WriteError(w, err)
		return
	}

	profile, err := identityModel.EncodeProfile(identityModel.ProfileOf(user))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(jwttoken.TokenTTL.Seconds()),
		Profile:     profile,
	})
}

func (h *IdentityHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	profile, err := h.identity.Profile(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	writeProfile(w, http.StatusOK, profile)
}

func (h *IdentityHandler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, err := authenticatedUserID(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	if err := h.identity.Deactivate(ctx, actorID, userID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeProfile encodes through the role-dispatching codec so each variant's
// JSON carries exactly its own fields.
func writeProfile(w http.ResponseWriter, status int, profile identityModel.UserProfile) {
	data, err := identityModel.EncodeProfile(profile)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// authenticatedUserID pulls the identity the auth middleware stored.
func authenticatedUserID(ctx context.Context) (id.UserID, error) {
	userID, err := id.ParseUserID(middleware.GetUserID(ctx))
	if err != nil {
		return id.UserID{}, dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	return userID, nil
}
