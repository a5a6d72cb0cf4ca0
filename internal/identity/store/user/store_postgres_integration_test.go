//go:build integration

package user_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shelterhub/internal/identity/models"
	"shelterhub/internal/identity/store/user"
	sheltermodels "shelterhub/internal/shelter/models"
	shelterstore "shelterhub/internal/shelter/store"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
	"shelterhub/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
	shelters *shelterstore.PostgresShelterStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = user.NewPostgres(s.postgres.DB)
	s.shelters = shelterstore.NewPostgresShelterStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "users", "shelters")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newShelter(name string) *sheltermodels.Shelter {
	shelter, err := sheltermodels.NewShelter(id.NewShelterID(), name, "12 Harbor Rd", "555-0100", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.shelters.Save(context.Background(), shelter))
	return shelter
}

// TestVariantRoundTrips verifies that each role variant survives a save and
// reload with its payload intact.
func (s *PostgresStoreSuite) TestVariantRoundTrips() {
	ctx := context.Background()
	shelter := s.newShelter("Harborlight Shelter")
	hired := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	adopter, err := models.NewAdopter(id.NewUserID(), "Mia Torres", "mia@example.org",
		models.AdopterProfile{Address: "4 Elm St", Phone: "555-0101"})
	s.Require().NoError(err)
	adopter.PasswordHash = []byte("hash-a")

	admin, err := models.NewAdmin(id.NewUserID(), "Root Admin", "admin@example.org",
		models.AdminProfile{AdminType: models.AdminTypeShelters})
	s.Require().NoError(err)

	staff, err := models.NewShelterStaff(id.NewUserID(), "Lee Park", "lee@example.org",
		models.StaffProfile{Phone: "555-0102", HiredDate: &hired, ShelterID: shelter.ID, StaffType: models.StaffTypeCareTaker})
	s.Require().NoError(err)

	for _, u := range []*models.User{adopter, admin, staff} {
		s.Require().NoError(s.store.Save(ctx, u))
	}

	got, err := s.store.FindByID(ctx, adopter.ID)
	s.Require().NoError(err)
	s.Equal(models.RoleAdopter, got.Role)
	s.Equal([]byte("hash-a"), got.PasswordHash)
	profile, ok := got.Adopter()
	s.Require().True(ok)
	s.Equal("4 Elm St", profile.Address)
	s.Equal("555-0101", profile.Phone)

	got, err = s.store.FindByID(ctx, admin.ID)
	s.Require().NoError(err)
	adminProfile, ok := got.Admin()
	s.Require().True(ok)
	s.Equal(models.AdminTypeShelters, adminProfile.AdminType)

	got, err = s.store.FindByID(ctx, staff.ID)
	s.Require().NoError(err)
	staffProfile, ok := got.Staff()
	s.Require().True(ok)
	s.Equal(shelter.ID, staffProfile.ShelterID)
	s.Equal(models.StaffTypeCareTaker, staffProfile.StaffType)
	s.Require().NotNil(staffProfile.HiredDate)
	s.True(staffProfile.HiredDate.Equal(hired))
}

// TestConcurrentDuplicateEmail verifies that concurrent registrations for the
// same email produce exactly one row.
func (s *PostgresStoreSuite) TestConcurrentDuplicateEmail() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			u, err := models.NewAdopter(id.NewUserID(), "Race Adopter", "race@example.org",
				models.AdopterProfile{Address: "1 Race Way"})
			if err != nil {
				return
			}
			err = s.store.Save(ctx, u)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one save should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")
}

// TestFindByEmailIsCaseInsensitive verifies the lookup matches regardless of
// case, backed by the lowercased unique index.
func (s *PostgresStoreSuite) TestFindByEmailIsCaseInsensitive() {
	ctx := context.Background()

	u, err := models.NewAdopter(id.NewUserID(), "Case Test", "Case.Test@Example.ORG",
		models.AdopterProfile{Address: "9 Case Ct"})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, u))

	for _, email := range []string{"case.test@example.org", "CASE.TEST@EXAMPLE.ORG", "Case.Test@Example.ORG"} {
		found, err := s.store.FindByEmail(ctx, email)
		s.Require().NoError(err, "FindByEmail(%q)", email)
		s.Equal(u.ID, found.ID)
	}

	dup, err := models.NewAdopter(id.NewUserID(), "Case Dup", "case.test@EXAMPLE.org",
		models.AdopterProfile{Address: "10 Case Ct"})
	s.Require().NoError(err)
	s.ErrorIs(s.store.Save(ctx, dup), sentinel.ErrConflict)
}

// TestDeleteByShelter verifies that removing a shelter's staff leaves other
// accounts untouched.
func (s *PostgresStoreSuite) TestDeleteByShelter() {
	ctx := context.Background()
	shelter := s.newShelter("Staffed Shelter")
	other := s.newShelter("Other Shelter")

	for i, email := range []string{"one@example.org", "two@example.org"} {
		staff, err := models.NewShelterStaff(id.NewUserID(), "Staff", email,
			models.StaffProfile{ShelterID: shelter.ID, StaffType: models.StaffTypeCareTaker})
		s.Require().NoError(err, "staff %d", i)
		s.Require().NoError(s.store.Save(ctx, staff))
	}
	outsider, err := models.NewShelterStaff(id.NewUserID(), "Outsider", "out@example.org",
		models.StaffProfile{ShelterID: other.ID, StaffType: models.StaffTypeManager})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, outsider))

	n, err := s.store.DeleteByShelter(ctx, shelter.ID)
	s.Require().NoError(err)
	s.Equal(2, n)

	remaining, err := s.store.ListStaffByShelter(ctx, shelter.ID)
	s.Require().NoError(err)
	s.Empty(remaining)

	_, err = s.store.FindByID(ctx, outsider.ID)
	s.NoError(err, "staff of other shelters must survive")

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

// TestShelterDeletionCascadesStaffRows verifies the database-level cascade:
// dropping the shelter row takes its staff accounts with it.
func (s *PostgresStoreSuite) TestShelterDeletionCascadesStaffRows() {
	ctx := context.Background()
	shelter := s.newShelter("Doomed Shelter")

	staff, err := models.NewShelterStaff(id.NewUserID(), "Doomed Staff", "doomed@example.org",
		models.StaffProfile{ShelterID: shelter.ID, StaffType: models.StaffTypeInterviewer})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, staff))

	s.Require().NoError(s.shelters.Delete(ctx, shelter.ID))

	_, err = s.store.FindByID(ctx, staff.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestNotFound verifies lookups for unknown users.
func (s *PostgresStoreSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByEmail(ctx, "ghost@example.org")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
