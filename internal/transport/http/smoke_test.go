package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	identityservice "shelterhub/internal/identity/service"
	userstore "shelterhub/internal/identity/store/user"

	adoptionservice "shelterhub/internal/adoption/service"
	requeststore "shelterhub/internal/adoption/store/request"
	"shelterhub/internal/platform/metrics"
	shelterservice "shelterhub/internal/shelter/service"
	shelterstore "shelterhub/internal/shelter/store"
	jwttoken "shelterhub/internal/token"
	"shelterhub/pkg/testutil"
)

func newSmokeRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	tokens, err := jwttoken.New("test-signing-key-0123456789abcdef", "shelterhub", "shelterhub-api")
	require.NoError(t, err)

	users := userstore.New()
	shelters := shelterstore.NewInMemoryShelterStore()
	categories := shelterstore.NewInMemoryCategoryStore()
	animals := shelterstore.NewInMemoryAnimalStore()
	requests := requeststore.New()

	return NewRouter(Deps{
		Identity:  identityservice.New(users, tokens, discardPublisher{}, m, logger),
		Shelters:  shelterservice.New(shelters, categories, animals, users, requests, logger),
		Adoptions: adoptionservice.New(requests, users, animals, shelters, discardPublisher{}, m, logger),
		Tokens:    tokens,
		Metrics:   m,
		Logger:    logger,
	})
}

// TestRouterSmoke checks the surface-level contract of the router: public
// endpoints answer, protected endpoints refuse anonymous callers.
func TestRouterSmoke(t *testing.T) {
	router := newSmokeRouter(t)

	testutil.Given(t, "a freshly wired router", func(t *testing.T) {
		testutil.When(t, "probing the health endpoint", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

			testutil.Then(t, "it reports ok", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
			})
		})

		testutil.When(t, "listing shelters anonymously", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/shelters"))

			testutil.Then(t, "the public catalog answers", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
			})
		})

		testutil.When(t, "creating an adoption request anonymously", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/adoptions", map[string]string{}))

			testutil.Then(t, "authentication is required", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
			})
		})

		testutil.When(t, "presenting a garbage bearer token", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/me")
			req.Header.Set("Authorization", "Bearer not-a-token")
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the token is rejected", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusUnauthorized)
			})
		})

		testutil.When(t, "scraping the metrics endpoint", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

			testutil.Then(t, "prometheus text is served", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
			})
		})
	})
}
