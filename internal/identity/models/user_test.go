package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

func TestConstructors_RejectInvalidPayloads(t *testing.T) {
	t.Run("admin rejects unknown admin type", func(t *testing.T) {
		_, err := NewAdmin(id.NewUserID(), "root", "root@shelterhub.dev", AdminProfile{AdminType: "janitor"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("staff rejects unknown staff type", func(t *testing.T) {
		_, err := NewShelterStaff(id.NewUserID(), "tess", "tess@shelterhub.dev", StaffProfile{
			StaffType: "walker",
			ShelterID: id.NewShelterID(),
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("staff rejects missing shelter", func(t *testing.T) {
		_, err := NewShelterStaff(id.NewUserID(), "tess", "tess@shelterhub.dev", StaffProfile{
			StaffType: StaffTypeInterviewer,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("shared fields are required", func(t *testing.T) {
		_, err := NewAdopter(id.NewUserID(), "", "a@b.c", AdopterProfile{})
		require.Error(t, err)
		_, err = NewAdopter(id.NewUserID(), "ann", "", AdopterProfile{})
		require.Error(t, err)
	})
}

func TestCapabilityAccessors_GateVariantPayloads(t *testing.T) {
	admin, err := NewAdmin(id.NewUserID(), "root", "root@shelterhub.dev", AdminProfile{AdminType: AdminTypeSuper})
	require.NoError(t, err)

	profile, ok := admin.Admin()
	require.True(t, ok)
	assert.Equal(t, AdminTypeSuper, profile.AdminType)

	// Cross-variant access is refused rather than zero-filled silently.
	_, ok = admin.Adopter()
	assert.False(t, ok)
	_, ok = admin.Staff()
	assert.False(t, ok)
}

func TestBelongsToShelter(t *testing.T) {
	shelterID := id.NewShelterID()
	staff, err := NewShelterStaff(id.NewUserID(), "tess", "tess@shelterhub.dev", StaffProfile{
		Phone:     "555-0100",
		ShelterID: shelterID,
		StaffType: StaffTypeManager,
	})
	require.NoError(t, err)

	assert.True(t, staff.BelongsToShelter(shelterID))
	assert.False(t, staff.BelongsToShelter(id.NewShelterID()))

	adopter, err := NewAdopter(id.NewUserID(), "ann", "ann@shelterhub.dev", AdopterProfile{})
	require.NoError(t, err)
	assert.False(t, adopter.BelongsToShelter(shelterID))
}

func TestDeactivate_IsSoft(t *testing.T) {
	u, err := NewAdopter(id.NewUserID(), "ann", "ann@shelterhub.dev", AdopterProfile{})
	require.NoError(t, err)
	require.True(t, u.Activated)

	u.Deactivate()
	assert.False(t, u.Activated)
	u.Reactivate()
	assert.True(t, u.Activated)
}

func TestParseRole(t *testing.T) {
	for _, role := range []Role{RoleAdopter, RoleAdmin, RoleShelterStaff} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := ParseRole("Wizard")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
