package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "shelterhub/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseRequestID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseShelterID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseAnimalID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, AnimalID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	userID := UserID(uuid.New())
	shelterID := ShelterID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ UserID = shelterID   // compile error
	// var _ ShelterID = userID   // compile error

	assert.NotEqual(t, uuid.UUID(userID), uuid.UUID(shelterID))
}

func TestTextRoundTrip(t *testing.T) {
	orig := NewRequestID()

	b, err := orig.MarshalText()
	require.NoError(t, err)

	var parsed RequestID
	require.NoError(t, parsed.UnmarshalText(b))
	assert.Equal(t, orig, parsed)
}
