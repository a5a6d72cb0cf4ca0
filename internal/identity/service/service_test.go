package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"shelterhub/internal/identity/models"
	userstore "shelterhub/internal/identity/store/user"
	"shelterhub/internal/notify"
	"shelterhub/internal/platform/metrics"
	jwttoken "shelterhub/internal/token"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

const testUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

type capturePublisher struct {
	events []notify.Event
}

func (p *capturePublisher) Enqueue(event notify.Event) {
	p.events = append(p.events, event)
}

type IdentityServiceSuite struct {
	suite.Suite

	ctx       context.Context
	service   *Service
	users     *userstore.InMemoryStore
	tokens    *jwttoken.Service
	published *capturePublisher
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = userstore.New()
	s.published = &capturePublisher{}

	var err error
	s.tokens, err = jwttoken.New("test-signing-key-0123456789abcdef", "shelterhub", "shelterhub-api")
	s.Require().NoError(err)

	s.service = New(s.users, s.tokens, s.published,
		metrics.New(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (s *IdentityServiceSuite) register(input RegisterInput) *models.User {
	user, err := s.service.Register(s.ctx, input)
	s.Require().NoError(err)
	return user
}

func (s *IdentityServiceSuite) adopterInput() RegisterInput {
	return RegisterInput{
		Role:     "Adopter",
		Username: "jane",
		Email:    "jane@example.com",
		Password: "correct horse",
		Address:  "12 Elm St",
		Phone:    "555-0101",
	}
}

func (s *IdentityServiceSuite) TestRegisterAdopter() {
	user := s.register(s.adopterInput())

	s.Equal(models.RoleAdopter, user.Role)
	s.True(user.Activated)
	profile, ok := user.Adopter()
	s.Require().True(ok)
	s.Equal("12 Elm St", profile.Address)

	s.NoError(bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("correct horse")))

	events := s.published.events
	s.Require().Len(events, 1)
	s.Equal(notify.EventUserRegistered, events[0].Type)
	s.Equal(notify.AdminGroup, events[0].Recipient)
}

func (s *IdentityServiceSuite) TestRegisterDerivesUsernameFromEmail() {
	input := s.adopterInput()
	input.Username = ""
	input.Email = "maria.santos@example.com"

	user := s.register(input)
	s.Equal("Maria Santos", user.Username)
}

func (s *IdentityServiceSuite) TestRegisterDuplicateEmail() {
	s.register(s.adopterInput())

	dup := s.adopterInput()
	dup.Email = "JANE@example.com"
	_, err := s.service.Register(s.ctx, dup)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *IdentityServiceSuite) TestRegisterRejectsUnknownRole() {
	input := s.adopterInput()
	input.Role = "Superuser"
	_, err := s.service.Register(s.ctx, input)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *IdentityServiceSuite) TestRegisterRejectsShortPassword() {
	input := s.adopterInput()
	input.Password = "short"
	_, err := s.service.Register(s.ctx, input)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *IdentityServiceSuite) TestRegisterStaffRequiresShelter() {
	input := RegisterInput{
		Role:      "ShelterStaff",
		Username:  "omar",
		Email:     "omar@example.com",
		Password:  "correct horse",
		StaffType: "interviewer",
	}
	_, err := s.service.Register(s.ctx, input)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	input.ShelterID = id.NewShelterID().String()
	user := s.register(input)
	profile, ok := user.Staff()
	s.Require().True(ok)
	s.Equal(models.StaffTypeInterviewer, profile.StaffType)
}

func (s *IdentityServiceSuite) TestAuthenticate() {
	registered := s.register(s.adopterInput())

	token, user, err := s.service.Authenticate(s.ctx, "jane@example.com", "correct horse", testUserAgent)
	s.Require().NoError(err)
	s.Equal(registered.ID, user.ID)

	claims, err := s.tokens.Validate(token)
	s.Require().NoError(err)
	s.Equal("Adopter", claims.Role)
	s.Equal("jane", claims.Username)
}

func (s *IdentityServiceSuite) TestAuthenticateWrongPassword() {
	s.register(s.adopterInput())

	_, _, err := s.service.Authenticate(s.ctx, "jane@example.com", "wrong", testUserAgent)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentityServiceSuite) TestAuthenticateUnknownEmail() {
	_, _, err := s.service.Authenticate(s.ctx, "ghost@example.com", "whatever1", testUserAgent)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentityServiceSuite) TestDeactivateBlocksLogin() {
	adopter := s.register(s.adopterInput())
	admin := s.register(RegisterInput{
		Role: "Admin", Username: "root", Email: "root@example.com",
		Password: "correct horse", AdminType: "users_admin",
	})

	s.Require().NoError(s.service.Deactivate(s.ctx, admin.ID, adopter.ID))

	_, _, err := s.service.Authenticate(s.ctx, "jane@example.com", "correct horse", testUserAgent)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *IdentityServiceSuite) TestDeactivateRequiresAdmin() {
	adopter := s.register(s.adopterInput())
	other := s.register(RegisterInput{
		Role: "Adopter", Username: "sam", Email: "sam@example.com",
		Password: "correct horse",
	})

	err := s.service.Deactivate(s.ctx, adopter.ID, other.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *IdentityServiceSuite) TestDeactivateSelfRefused() {
	admin := s.register(RegisterInput{
		Role: "Admin", Username: "root", Email: "root@example.com",
		Password: "correct horse", AdminType: "users_admin",
	})

	err := s.service.Deactivate(s.ctx, admin.ID, admin.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}
