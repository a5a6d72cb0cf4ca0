// Package httptransport is the thin HTTP layer. It delegates to the domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityModel "shelterhub/internal/identity/models"
	"shelterhub/internal/platform/metrics"
	"shelterhub/internal/platform/middleware"
	jwttoken "shelterhub/internal/token"
)

// tokenValidator adapts the token service to the middleware contract.
type tokenValidator struct {
	tokens *jwttoken.Service
}

func (v tokenValidator) ValidateToken(tokenString string) (*middleware.AuthClaims, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.AuthClaims{UserID: claims.Subject, Role: claims.Role}, nil
}

// Deps bundles what the router needs.
type Deps struct {
	Identity  IdentityService
	Shelters  ShelterService
	Adoptions AdoptionService
	Tokens    *jwttoken.Service
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	identity := NewIdentityHandler(deps.Identity, deps.Logger)
	shelters := NewShelterHandler(deps.Shelters, deps.Logger)
	adoptions := NewAdoptionHandler(deps.Adoptions, deps.Logger)

	requireAuth := middleware.RequireAuth(tokenValidator{tokens: deps.Tokens}, deps.Logger)
	adminOnly := middleware.RequireRole(deps.Logger, identityModel.RoleAdmin.String())
	staffOrAdmin := middleware.RequireRole(deps.Logger,
		identityModel.RoleShelterStaff.String(), identityModel.RoleAdmin.String())

	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger, deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/register", identity.handleRegister)
	r.Post("/auth/login", identity.handleLogin)

	r.Get("/shelters", shelters.handleListShelters)
	r.Get("/shelters/{shelterID}", shelters.handleGetShelter)
	r.Get("/shelters/{shelterID}/categories", shelters.handleListCategories)
	r.Get("/shelters/{shelterID}/animals", shelters.handleListAnimals)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/me", identity.handleMe)

		r.Post("/adoptions", adoptions.handleCreateRequest)
		r.Get("/adoptions", adoptions.handleListMine)
		r.Get("/adoptions/{requestID}", adoptions.handleGetRequest)
		r.Post("/adoptions/{requestID}/cancel", adoptions.handleCancel)

		r.Group(func(r chi.Router) {
			r.Use(staffOrAdmin)
			r.Post("/adoptions/{requestID}/interview", adoptions.handleScheduleInterview)
			r.Post("/adoptions/{requestID}/outcome", adoptions.handleRecordOutcome)
			r.Get("/shelters/{shelterID}/adoptions", adoptions.handleListByShelter)

			r.Post("/shelters/{shelterID}/categories", shelters.handleAddCategory)
			r.Delete("/categories/{categoryID}", shelters.handleDeleteCategory)
			r.Post("/shelters/{shelterID}/animals", shelters.handleAddAnimal)
			r.Delete("/animals/{animalID}", shelters.handleDeleteAnimal)
		})

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/shelters", shelters.handleCreateShelter)
			r.Delete("/shelters/{shelterID}", shelters.handleDeleteShelter)
			r.Post("/admin/users/{userID}/deactivate", identity.handleDeactivate)
		})
	})

	return r
}
