package models

import (
	"encoding/json"
	"time"

	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

// Role is the discriminator selecting a user's concrete variant. The numeric
// values are part of the storage format; never reorder them. JSON payloads
// carry the name form instead.
type Role int

const (
	RoleUnknown      Role = 0
	RoleAdopter      Role = 1
	RoleAdmin        Role = 2
	RoleShelterStaff Role = 3
)

var roleNames = map[Role]string{
	RoleAdopter:      "Adopter",
	RoleAdmin:        "Admin",
	RoleShelterStaff: "ShelterStaff",
}

// String returns the role's external name form, used in token claims and
// wire projections.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole maps the external name form back to a Role.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUnknown, dErrors.Newf(dErrors.CodeNotFound, "unknown role %q", s)
}

// MarshalJSON writes the name form; the numeric form never crosses the
// serialization boundary.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON reads the name form. An unknown name maps to RoleUnknown so
// the envelope probe rejects it with a coded error instead of a bare one.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		*r = RoleUnknown
		return nil
	}
	*r = parsed
	return nil
}

// AdminType refines the Admin variant.
type AdminType string

const (
	AdminTypeSuper    AdminType = "super_admin"
	AdminTypeUsers    AdminType = "users_admin"
	AdminTypeShelters AdminType = "shelter_admin"
)

// Valid reports whether t is a known admin type.
func (t AdminType) Valid() bool {
	switch t {
	case AdminTypeSuper, AdminTypeUsers, AdminTypeShelters:
		return true
	}
	return false
}

// StaffType refines the ShelterStaff variant.
type StaffType string

const (
	StaffTypeManager     StaffType = "manager"
	StaffTypeInterviewer StaffType = "interviewer"
	StaffTypeCareTaker   StaffType = "caretaker"
)

// Valid reports whether t is a known staff type.
func (t StaffType) Valid() bool {
	switch t {
	case StaffTypeManager, StaffTypeInterviewer, StaffTypeCareTaker:
		return true
	}
	return false
}

// AdopterProfile holds the Adopter variant's payload.
type AdopterProfile struct {
	Address string
	Phone   string
}

// AdminProfile holds the Admin variant's payload.
type AdminProfile struct {
	AdminType AdminType
}

// StaffProfile holds the ShelterStaff variant's payload. HiredDate is optional
// until HR backfills it.
type StaffProfile struct {
	Phone     string
	HiredDate *time.Time
	ShelterID id.ShelterID
	StaffType StaffType
}

// User is the tagged-variant identity record: shared fields plus exactly one
// role-specific payload selected by Role. The payload fields are unexported so
// the only way to build a User is through the constructors, which keep the
// discriminator and the payload in agreement. Role is immutable once assigned.
type User struct {
	ID        id.UserID
	Username  string
	Email     string
	Role      Role
	Activated bool

	// PasswordHash never crosses the serialization boundary.
	PasswordHash []byte

	adopter *AdopterProfile
	admin   *AdminProfile
	staff   *StaffProfile
}

// NewAdopter constructs an activated Adopter.
func NewAdopter(userID id.UserID, username, email string, profile AdopterProfile) (*User, error) {
	if err := validateShared(userID, username, email); err != nil {
		return nil, err
	}
	return &User{
		ID:        userID,
		Username:  username,
		Email:     email,
		Role:      RoleAdopter,
		Activated: true,
		adopter:   &profile,
	}, nil
}

// NewAdmin constructs an activated Admin.
func NewAdmin(userID id.UserID, username, email string, profile AdminProfile) (*User, error) {
	if err := validateShared(userID, username, email); err != nil {
		return nil, err
	}
	if !profile.AdminType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown admin type %q", profile.AdminType)
	}
	return &User{
		ID:        userID,
		Username:  username,
		Email:     email,
		Role:      RoleAdmin,
		Activated: true,
		admin:     &profile,
	}, nil
}

// NewShelterStaff constructs an activated ShelterStaff member.
func NewShelterStaff(userID id.UserID, username, email string, profile StaffProfile) (*User, error) {
	if err := validateShared(userID, username, email); err != nil {
		return nil, err
	}
	if !profile.StaffType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown staff type %q", profile.StaffType)
	}
	if profile.ShelterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "staff member requires a shelter")
	}
	return &User{
		ID:        userID,
		Username:  username,
		Email:     email,
		Role:      RoleShelterStaff,
		Activated: true,
		staff:     &profile,
	}, nil
}

func validateShared(userID id.UserID, username, email string) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	if username == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}
	if email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	return nil
}

// Adopter returns the Adopter payload. The second result gates access: callers
// must check it instead of assuming the variant.
func (u *User) Adopter() (AdopterProfile, bool) {
	if u.adopter == nil {
		return AdopterProfile{}, false
	}
	return *u.adopter, true
}

// Admin returns the Admin payload when the user is an admin.
func (u *User) Admin() (AdminProfile, bool) {
	if u.admin == nil {
		return AdminProfile{}, false
	}
	return *u.admin, true
}

// Staff returns the ShelterStaff payload when the user is shelter staff.
func (u *User) Staff() (StaffProfile, bool) {
	if u.staff == nil {
		return StaffProfile{}, false
	}
	return *u.staff, true
}

// Deactivate flips the activated flag. Users are never hard-deleted.
func (u *User) Deactivate() {
	u.Activated = false
}

// Reactivate restores a previously deactivated user.
func (u *User) Reactivate() {
	u.Activated = true
}

// BelongsToShelter reports whether the user is staff of the given shelter.
func (u *User) BelongsToShelter(shelterID id.ShelterID) bool {
	staff, ok := u.Staff()
	return ok && staff.ShelterID == shelterID
}

// Clone returns a deep copy. Stores hand out clones so callers cannot mutate
// persisted state behind the store's back.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.PasswordHash != nil {
		out.PasswordHash = append([]byte(nil), u.PasswordHash...)
	}
	if u.adopter != nil {
		p := *u.adopter
		out.adopter = &p
	}
	if u.admin != nil {
		p := *u.admin
		out.admin = &p
	}
	if u.staff != nil {
		p := *u.staff
		if u.staff.HiredDate != nil {
			d := *u.staff.HiredDate
			p.HiredDate = &d
		}
		out.staff = &p
	}
	return &out
}
