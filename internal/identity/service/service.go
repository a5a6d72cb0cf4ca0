// Package service handles account registration, authentication and lifecycle.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"shelterhub/internal/identity/models"
	"shelterhub/internal/notify"
	"shelterhub/internal/platform/metrics"
	jwttoken "shelterhub/internal/token"
	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
	"shelterhub/pkg/email"
	"shelterhub/pkg/platform/sentinel"
)

const minPasswordLength = 8

// UserStore persists accounts. Save must refuse a second account with the
// same email, matched case-insensitively.
type UserStore interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, address string) (*models.User, error)
}

// RegisterInput carries the shared fields plus the payload of whichever role
// is being registered. Fields outside the chosen role are ignored.
type RegisterInput struct {
	Role     string
	Username string
	Email    string
	Password string

	// Adopter
	Address string
	Phone   string

	// Admin
	AdminType string

	// ShelterStaff
	StaffType string
	ShelterID string
}

type Service struct {
	users    UserStore
	tokens   *jwttoken.Service
	notifier notify.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(users UserStore, tokens *jwttoken.Service, notifier notify.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Register creates the account variant named by input.Role. An omitted
// username is derived from the email's local part.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	role, err := models.ParseRole(input.Role)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", input.Role)
	}
	if len(input.Password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "password must be at least %d characters", minPasswordLength)
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		first, last := email.DeriveNameFromEmail(input.Email)
		username = first + " " + last
	}

	user, err := s.buildUser(role, username, input)
	if err != nil {
		return nil, err
	}

	user.PasswordHash, err = bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save user")
	}

	s.metrics.UsersRegistered.Inc()
	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()),
	)
	s.notifier.Enqueue(notify.NewUserRegistered(notify.UserRegisteredPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	}))
	return user, nil
}

func (s *Service) buildUser(role models.Role, username string, input RegisterInput) (*models.User, error) {
	switch role {
	case models.RoleAdopter:
		return models.NewAdopter(id.NewUserID(), username, input.Email, models.AdopterProfile{
			Address: input.Address,
			Phone:   input.Phone,
		})
	case models.RoleAdmin:
		return models.NewAdmin(id.NewUserID(), username, input.Email, models.AdminProfile{
			AdminType: models.AdminType(input.AdminType),
		})
	case models.RoleShelterStaff:
		shelterID, err := id.ParseShelterID(input.ShelterID)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "shelter id is required for staff accounts")
		}
		return models.NewShelterStaff(id.NewUserID(), username, input.Email, models.StaffProfile{
			Phone:     input.Phone,
			ShelterID: shelterID,
			StaffType: models.StaffType(input.StaffType),
		})
	default:
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", role)
	}
}

// Authenticate checks the credentials and issues a signed access token whose
// claims carry the account's full profile. The client user agent is parsed
// for the login audit trail only.
func (s *Service) Authenticate(ctx context.Context, address, password, rawUserAgent string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, address)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Burn comparable time so the response does not reveal whether
		// the address exists.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up user")
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.Activated {
		return "", nil, dErrors.New(dErrors.CodeForbidden, "account is deactivated")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "issue token")
	}

	s.metrics.TokensIssued.Inc()
	ua := useragent.New(rawUserAgent)
	browser, version := ua.Browser()
	s.logger.InfoContext(ctx, "user authenticated",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()),
		slog.String("os", ua.OS()),
		slog.String("browser", browser+" "+version),
		slog.Bool("mobile", ua.Mobile()),
	)
	return token, user, nil
}

// Deactivate disables the account without deleting it. Admin only; admins
// cannot deactivate themselves so the last admin cannot lock everyone out.
func (s *Service) Deactivate(ctx context.Context, actorID, userID id.UserID) error {
	actor, err := s.userByID(ctx, actorID)
	if err != nil {
		return err
	}
	if _, ok := actor.Admin(); !ok {
		return dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	if actorID == userID {
		return dErrors.New(dErrors.CodeConflict, "admins cannot deactivate their own account")
	}

	user, err := s.userByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Deactivate()
	if err := s.users.Save(ctx, user); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save user")
	}
	s.logger.InfoContext(ctx, "user deactivated",
		slog.String("user_id", userID.String()), slog.String("actor_id", actorID.String()))
	return nil
}

// Profile returns the transfer projection of the account.
func (s *Service) Profile(ctx context.Context, userID id.UserID) (models.UserProfile, error) {
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return models.ProfileOf(user), nil
}

func (s *Service) userByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up user")
	}
	return user, nil
}

// dummyHash is a valid bcrypt digest of a random string, used to equalize
// timing on unknown addresses.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(time.Now().String()), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}()
