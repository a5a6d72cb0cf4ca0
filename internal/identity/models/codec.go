package models

import (
	"encoding/json"
	"time"

	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

// envelope is the self-describing wire form shared by the full entity and the
// boundary projection. The role field is the discriminator; a decoder must
// read it before trusting any variant-specific field. omitempty keeps fields
// of other variants out of the payload entirely.
type envelope struct {
	Role     Role      `json:"role"`
	ID       id.UserID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`

	// Entity-only fields; absent from the transfer projection.
	Activated *bool `json:"activated,omitempty"`

	// Adopter fields.
	Address string `json:"address,omitempty"`

	// Shared by Adopter and ShelterStaff.
	Phone string `json:"phone,omitempty"`

	// Admin fields.
	AdminType AdminType `json:"admin_type,omitempty"`

	// ShelterStaff fields.
	StaffType StaffType  `json:"staff_type,omitempty"`
	HiredDate *time.Time `json:"hired_date,omitempty"`
	ShelterID string     `json:"shelter_id,omitempty"`
}

// EncodeUser serializes the full entity, including the role discriminator, so
// the payload can later be decoded without external type hints. The password
// hash never leaves the process.
func EncodeUser(u *User) ([]byte, error) {
	if u == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user is required")
	}
	env := envelope{
		Role:      u.Role,
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Activated: &u.Activated,
	}
	if err := fillVariant(&env, u); err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// DecodeUser parses a payload produced by EncodeUser. It probes the role field
// first and dispatches to the decoder for that variant; an unrecognized role
// yields a not-found error, never a panic, and callers must check for it.
func DecodeUser(data []byte) (*User, error) {
	env, err := probe(data)
	if err != nil {
		return nil, err
	}

	activated := true
	if env.Activated != nil {
		activated = *env.Activated
	}

	user, err := decodeVariant(env)
	if err != nil {
		return nil, err
	}
	user.Activated = activated
	return user, nil
}

// UserProfile is the transfer projection crossing the system boundary: shared
// display fields plus the variant's discriminator fields. It carries neither
// the activated flag nor HR data (hired date); downstream consumers get the
// profile for display, not for authorization state.
type UserProfile struct {
	ID       id.UserID
	Username string
	Email    string
	Role     Role

	Address   string
	Phone     string
	AdminType AdminType
	StaffType StaffType
	ShelterID string
}

// ProfileOf builds the transfer projection for a user.
func ProfileOf(u *User) UserProfile {
	p := UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
	switch u.Role {
	case RoleAdopter:
		if a, ok := u.Adopter(); ok {
			p.Address = a.Address
			p.Phone = a.Phone
		}
	case RoleAdmin:
		if a, ok := u.Admin(); ok {
			p.AdminType = a.AdminType
		}
	case RoleShelterStaff:
		if s, ok := u.Staff(); ok {
			p.Phone = s.Phone
			p.StaffType = s.StaffType
			p.ShelterID = s.ShelterID.String()
		}
	}
	return p
}

// EncodeProfile serializes the transfer projection under the same dispatch
// rule as EncodeUser: only the variant's own fields appear in the payload.
func EncodeProfile(p UserProfile) ([]byte, error) {
	if !p.Role.Valid() {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown role discriminator %d", int(p.Role))
	}
	env := envelope{
		Role:     p.Role,
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
	}
	switch p.Role {
	case RoleAdopter:
		env.Address = p.Address
		env.Phone = p.Phone
	case RoleAdmin:
		env.AdminType = p.AdminType
	case RoleShelterStaff:
		env.Phone = p.Phone
		env.StaffType = p.StaffType
		env.ShelterID = p.ShelterID
	}
	return json.Marshal(env)
}

// DecodeProfile parses a transfer projection, dispatching on the role
// discriminator exactly like DecodeUser.
func DecodeProfile(data []byte) (UserProfile, error) {
	env, err := probe(data)
	if err != nil {
		return UserProfile{}, err
	}

	p := UserProfile{
		ID:       env.ID,
		Username: env.Username,
		Email:    env.Email,
		Role:     env.Role,
	}
	switch env.Role {
	case RoleAdopter:
		p.Address = env.Address
		p.Phone = env.Phone
	case RoleAdmin:
		if !env.AdminType.Valid() {
			return UserProfile{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown admin type %q", env.AdminType)
		}
		p.AdminType = env.AdminType
	case RoleShelterStaff:
		if !env.StaffType.Valid() {
			return UserProfile{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown staff type %q", env.StaffType)
		}
		p.Phone = env.Phone
		p.StaffType = env.StaffType
		p.ShelterID = env.ShelterID
	}
	return p, nil
}

// probe parses the generic envelope and validates the discriminator before
// any variant field is trusted.
func probe(data []byte) (*envelope, error) {
	var disc struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal(data, &disc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed identity payload")
	}
	if !disc.Role.Valid() {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown role discriminator")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed identity payload")
	}
	return &env, nil
}

func decodeVariant(env *envelope) (*User, error) {
	switch env.Role {
	case RoleAdopter:
		return NewAdopter(env.ID, env.Username, env.Email, AdopterProfile{
			Address: env.Address,
			Phone:   env.Phone,
		})
	case RoleAdmin:
		return NewAdmin(env.ID, env.Username, env.Email, AdminProfile{
			AdminType: env.AdminType,
		})
	case RoleShelterStaff:
		shelterID, err := id.ParseShelterID(env.ShelterID)
		if err != nil {
			return nil, err
		}
		return NewShelterStaff(env.ID, env.Username, env.Email, StaffProfile{
			Phone:     env.Phone,
			HiredDate: env.HiredDate,
			ShelterID: shelterID,
			StaffType: env.StaffType,
		})
	default:
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown role discriminator %d", int(env.Role))
	}
}

func fillVariant(env *envelope, u *User) error {
	switch u.Role {
	case RoleAdopter:
		a, ok := u.Adopter()
		if !ok {
			return dErrors.New(dErrors.CodeInvariantViolation, "adopter role without adopter payload")
		}
		env.Address = a.Address
		env.Phone = a.Phone
	case RoleAdmin:
		a, ok := u.Admin()
		if !ok {
			return dErrors.New(dErrors.CodeInvariantViolation, "admin role without admin payload")
		}
		env.AdminType = a.AdminType
	case RoleShelterStaff:
		s, ok := u.Staff()
		if !ok {
			return dErrors.New(dErrors.CodeInvariantViolation, "staff role without staff payload")
		}
		env.Phone = s.Phone
		env.StaffType = s.StaffType
		env.HiredDate = s.HiredDate
		env.ShelterID = s.ShelterID.String()
	default:
		return dErrors.Newf(dErrors.CodeNotFound, "unknown role discriminator %d", int(u.Role))
	}
	return nil
}
