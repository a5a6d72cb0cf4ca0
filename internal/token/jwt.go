// Package jwttoken issues and validates the signed access tokens that carry a
// user's role and role-specific claims.
package jwttoken

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shelterhub/internal/identity/models"
	dErrors "shelterhub/pkg/domain-errors"
)

// TokenTTL is fixed at sixty minutes from issuance.
const TokenTTL = 60 * time.Minute

// profileClaimVersion guards the embedded profile payload so consumers can
// reject snapshots produced by an incompatible encoder.
const profileClaimVersion = 1

// Claims represents the JWT claims for our access tokens. Besides the shared
// set, each variant contributes its discriminator: admin_type for admins,
// staff_type and phone for shelter staff. The full transfer projection is
// embedded as one opaque claim so downstream consumers can render the profile
// without a second lookup; authorization decisions must still be made from the
// role claim per call, never from the snapshot.
type Claims struct {
	Username  string          `json:"name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	AdminType string          `json:"admin_type,omitempty"`
	StaffType string          `json:"staff_type,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Profile   json.RawMessage `json:"profile,omitempty"`
	ProfileV  int             `json:"profile_v,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies access tokens with a symmetric secret.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

// New constructs the token service. An absent or empty signing secret is a
// configuration error and must abort startup; there is no dev-key fallback.
func New(signingKey string, issuer string, audience string) (*Service, error) {
	if signingKey == "" {
		return nil, errors.New("jwt signing key is required")
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}, nil
}

// Issue builds and signs a token for the given identity.
func (s *Service) Issue(user *models.User) (string, error) {
	if user == nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user is required")
	}

	profile := models.ProfileOf(user)
	encoded, err := models.EncodeProfile(profile)
	if err != nil {
		return "", err
	}

	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
		Profile:  encoded,
		ProfileV: profileClaimVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	}

	switch user.Role {
	case models.RoleAdmin:
		if admin, ok := user.Admin(); ok {
			claims.AdminType = string(admin.AdminType)
		}
	case models.RoleShelterStaff:
		if staff, ok := user.Staff(); ok {
			claims.StaffType = string(staff.StaffType)
			claims.Phone = staff.Phone
		}
	}

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// Validate verifies signature and expiry and returns the claims. Issuer and
// audience are carried but not validated here.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// ExtractUserID validates the token and parses its subject.
func (s *Service) ExtractUserID(tokenString string) (uuid.UUID, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.Subject)
}

// EmbeddedProfile decodes the opaque profile claim. Unknown profile versions
// are rejected rather than guessed at.
func (c *Claims) EmbeddedProfile() (models.UserProfile, error) {
	if len(c.Profile) == 0 {
		return models.UserProfile{}, dErrors.New(dErrors.CodeNotFound, "token carries no profile claim")
	}
	if c.ProfileV != profileClaimVersion {
		return models.UserProfile{}, dErrors.Newf(dErrors.CodeUnauthorized, "unsupported profile claim version %d", c.ProfileV)
	}
	return models.DecodeProfile(c.Profile)
}
