// Package domain holds typed identifiers shared across the module.
//
// Each entity gets its own UUID-backed type so the compiler rejects mixing a
// ShelterID where an AnimalID belongs. Parse functions enforce the invariant
// that ids are valid, non-empty, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "shelterhub/pkg/domain-errors"
)

type (
	// UserID identifies any user variant (adopter, admin, shelter staff).
	UserID uuid.UUID
	// ShelterID identifies a shelter.
	ShelterID uuid.UUID
	// CategoryID identifies an animal category within a shelter.
	CategoryID uuid.UUID
	// AnimalID identifies an animal.
	AnimalID uuid.UUID
	// RequestID identifies an adoption request.
	RequestID uuid.UUID
	// InterviewID identifies the interview attached to a request.
	InterviewID uuid.UUID
)

func parse(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parse(s)
	return UserID(u), err
}

// ParseShelterID validates and returns a ShelterID.
func ParseShelterID(s string) (ShelterID, error) {
	u, err := parse(s)
	return ShelterID(u), err
}

// ParseCategoryID validates and returns a CategoryID.
func ParseCategoryID(s string) (CategoryID, error) {
	u, err := parse(s)
	return CategoryID(u), err
}

// ParseAnimalID validates and returns an AnimalID.
func ParseAnimalID(s string) (AnimalID, error) {
	u, err := parse(s)
	return AnimalID(u), err
}

// ParseRequestID validates and returns a RequestID.
func ParseRequestID(s string) (RequestID, error) {
	u, err := parse(s)
	return RequestID(u), err
}

// ParseInterviewID validates and returns an InterviewID.
func ParseInterviewID(s string) (InterviewID, error) {
	u, err := parse(s)
	return InterviewID(u), err
}

// NewUserID returns a freshly generated UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewShelterID returns a freshly generated ShelterID.
func NewShelterID() ShelterID { return ShelterID(uuid.New()) }

// NewCategoryID returns a freshly generated CategoryID.
func NewCategoryID() CategoryID { return CategoryID(uuid.New()) }

// NewAnimalID returns a freshly generated AnimalID.
func NewAnimalID() AnimalID { return AnimalID(uuid.New()) }

// NewRequestID returns a freshly generated RequestID.
func NewRequestID() RequestID { return RequestID(uuid.New()) }

// NewInterviewID returns a freshly generated InterviewID.
func NewInterviewID() InterviewID { return InterviewID(uuid.New()) }

func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id ShelterID) String() string   { return uuid.UUID(id).String() }
func (id CategoryID) String() string  { return uuid.UUID(id).String() }
func (id AnimalID) String() string    { return uuid.UUID(id).String() }
func (id RequestID) String() string   { return uuid.UUID(id).String() }
func (id InterviewID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ShelterID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AnimalID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id InterviewID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText makes ids render as canonical UUID strings in JSON payloads.
func (id UserID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id ShelterID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id CategoryID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id AnimalID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id RequestID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id InterviewID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses a canonical UUID string, enforcing the same invariants
// as the Parse functions.
func (id *UserID) UnmarshalText(b []byte) error {
	v, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id *ShelterID) UnmarshalText(b []byte) error {
	v, err := ParseShelterID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id *CategoryID) UnmarshalText(b []byte) error {
	v, err := ParseCategoryID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id *AnimalID) UnmarshalText(b []byte) error {
	v, err := ParseAnimalID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id *RequestID) UnmarshalText(b []byte) error {
	v, err := ParseRequestID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id *InterviewID) UnmarshalText(b []byte) error {
	v, err := ParseInterviewID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
