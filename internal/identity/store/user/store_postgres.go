package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"shelterhub/internal/identity/models"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
)

// PostgresStore persists users in a single table: shared columns plus
// nullable variant columns selected by the role discriminator.
//
// Schema:
//
//	CREATE TABLE users (
//	    id            UUID PRIMARY KEY,
//	    username      TEXT NOT NULL,
//	    email         TEXT NOT NULL,
//	    role          INT  NOT NULL,
//	    activated     BOOLEAN NOT NULL,
//	    password_hash BYTEA,
//	    address       TEXT,
//	    phone         TEXT,
//	    admin_type    TEXT,
//	    staff_type    TEXT,
//	    hired_date    TIMESTAMPTZ,
//	    shelter_id    UUID REFERENCES shelters (id) ON DELETE CASCADE
//	);
//	CREATE UNIQUE INDEX users_email_key ON users (LOWER(email));
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, username, email, role, activated, password_hash,
	address, phone, admin_type, staff_type, hired_date, shelter_id`

func (s *PostgresStore) Save(ctx context.Context, user *models.User) error {
	row := rowOf(user)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			activated = EXCLUDED.activated,
			password_hash = EXCLUDED.password_hash,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			admin_type = EXCLUDED.admin_type,
			staff_type = EXCLUDED.staff_type,
			hired_date = EXCLUDED.hired_date,
			shelter_id = EXCLUDED.shelter_id
	`,
		user.ID.String(), user.Username, user.Email, int(user.Role), user.Activated, user.PasswordHash,
		row.address, row.phone, row.adminType, row.staffType, row.hiredDate, row.shelterID,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID.String()))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)
	`, email))
}

func (s *PostgresStore) DeleteByShelter(ctx context.Context, shelterID id.ShelterID) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM users WHERE shelter_id = $1
	`, shelterID.String())
	if err != nil {
		return 0, fmt.Errorf("delete staff by shelter: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresStore) ListStaffByShelter(ctx context.Context, shelterID id.ShelterID) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE shelter_id = $1 ORDER BY username
	`, shelterID.String())
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		user, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

type userRow struct {
	address   sql.NullString
	phone     sql.NullString
	adminType sql.NullString
	staffType sql.NullString
	hiredDate sql.NullTime
	shelterID sql.NullString
}

func rowOf(user *models.User) userRow {
	var row userRow
	if a, ok := user.Adopter(); ok {
		row.address = sql.NullString{String: a.Address, Valid: true}
		row.phone = sql.NullString{String: a.Phone, Valid: true}
	}
	if a, ok := user.Admin(); ok {
		row.adminType = sql.NullString{String: string(a.AdminType), Valid: true}
	}
	if st, ok := user.Staff(); ok {
		row.phone = sql.NullString{String: st.Phone, Valid: true}
		row.staffType = sql.NullString{String: string(st.StaffType), Valid: true}
		row.shelterID = sql.NullString{String: st.ShelterID.String(), Valid: true}
		if st.HiredDate != nil {
			row.hiredDate = sql.NullTime{Time: *st.HiredDate, Valid: true}
		}
	}
	return row
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanOne(row scanner) (*models.User, error) {
	var (
		rawID, username, email string
		role                   int
		activated              bool
		passwordHash           []byte
		vr                     userRow
	)
	err := row.Scan(&rawID, &username, &email, &role, &activated, &passwordHash,
		&vr.address, &vr.phone, &vr.adminType, &vr.staffType, &vr.hiredDate, &vr.shelterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}

	var user *models.User
	switch models.Role(role) {
	case models.RoleAdopter:
		user, err = models.NewAdopter(userID, username, email, models.AdopterProfile{
			Address: vr.address.String,
			Phone:   vr.phone.String,
		})
	case models.RoleAdmin:
		user, err = models.NewAdmin(userID, username, email, models.AdminProfile{
			AdminType: models.AdminType(vr.adminType.String),
		})
	case models.RoleShelterStaff:
		var shelterID id.ShelterID
		shelterID, err = id.ParseShelterID(vr.shelterID.String)
		if err != nil {
			return nil, err
		}
		var hired *time.Time
		if vr.hiredDate.Valid {
			t := vr.hiredDate.Time
			hired = &t
		}
		user, err = models.NewShelterStaff(userID, username, email, models.StaffProfile{
			Phone:     vr.phone.String,
			HiredDate: hired,
			ShelterID: shelterID,
			StaffType: models.StaffType(vr.staffType.String),
		})
	default:
		return nil, fmt.Errorf("user %s: unknown role %d in storage", rawID, role)
	}
	if err != nil {
		return nil, err
	}

	user.Activated = activated
	user.PasswordHash = passwordHash
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
