package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"shelterhub/internal/adoption/models"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
)

// PostgresStore persists requests and interviews.
//
// Schema:
//
//	CREATE TABLE adoption_requests (
//	    id           UUID PRIMARY KEY,
//	    adopter_id   UUID NOT NULL REFERENCES users (id),
//	    animal_id    UUID NOT NULL REFERENCES animals (id),
//	    shelter_id   UUID NOT NULL REFERENCES shelters (id),
//	    status       TEXT NOT NULL,
//	    request_date TIMESTAMPTZ NOT NULL,
//	    approved_at  TIMESTAMPTZ,
//	    version      INT NOT NULL
//	);
//	-- one active request per adopter+animal pair
//	CREATE UNIQUE INDEX adoption_requests_active_pair
//	    ON adoption_requests (adopter_id, animal_id)
//	    WHERE status IN ('Requested', 'InterviewScheduled');
//
//	CREATE TABLE interviews (
//	    id             UUID PRIMARY KEY,
//	    request_id     UUID NOT NULL UNIQUE
//	        REFERENCES adoption_requests (id) ON DELETE CASCADE,
//	    adopter_id     UUID NOT NULL,
//	    animal_id      UUID NOT NULL,
//	    interview_date TIMESTAMPTZ
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, request *models.AdoptionRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO adoption_requests
			(id, adopter_id, animal_id, shelter_id, status, request_date, approved_at, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		request.ID.String(), request.AdopterID.String(), request.AnimalID.String(),
		request.ShelterID.String(), string(request.Status), request.RequestDate,
		nullTime(request.ApprovedAt), request.Version,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if isForeignKeyViolation(err) {
		// The adopter or animal row vanished between the service lookup
		// and the insert.
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// Update commits a transition under the optimistic version check. The
// interview row, when present, is written in the same transaction so a
// scheduled interview can never exist without its committed request state.
func (s *PostgresStore) Update(ctx context.Context, request *models.AdoptionRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE adoption_requests
		SET status = $2, approved_at = $3, version = version + 1
		WHERE id = $1 AND version = $4
	`,
		request.ID.String(), string(request.Status), nullTime(request.ApprovedAt), request.Version,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM adoption_requests WHERE id = $1)`,
			request.ID.String(),
		).Scan(&exists); err != nil {
			return fmt.Errorf("check request existence: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}

	if iv := request.Interview; iv != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO interviews (id, request_id, adopter_id, animal_id, interview_date)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (request_id) DO NOTHING
		`,
			iv.ID.String(), iv.RequestID.String(), iv.AdopterID.String(),
			iv.AnimalID.String(), nullTime(iv.InterviewDate),
		)
		if err != nil {
			return fmt.Errorf("save interview: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	request.Version++
	return nil
}

const requestColumns = `
	r.id, r.adopter_id, r.animal_id, r.shelter_id, r.status, r.request_date,
	r.approved_at, r.version,
	i.id, i.interview_date`

const requestFrom = `
	FROM adoption_requests r
	LEFT JOIN interviews i ON i.request_id = r.id`

func (s *PostgresStore) FindByID(ctx context.Context, requestID id.RequestID) (*models.AdoptionRequest, error) {
	return scanRequest(s.db.QueryRowContext(ctx,
		`SELECT`+requestColumns+requestFrom+` WHERE r.id = $1`,
		requestID.String(),
	))
}

func (s *PostgresStore) ListByAdopter(ctx context.Context, adopterID id.UserID) ([]*models.AdoptionRequest, error) {
	return s.list(ctx,
		`SELECT`+requestColumns+requestFrom+` WHERE r.adopter_id = $1 ORDER BY r.request_date`,
		adopterID.String(),
	)
}

func (s *PostgresStore) ListByShelter(ctx context.Context, shelterID id.ShelterID) ([]*models.AdoptionRequest, error) {
	return s.list(ctx,
		`SELECT`+requestColumns+requestFrom+` WHERE r.shelter_id = $1 ORDER BY r.request_date`,
		shelterID.String(),
	)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.AdoptionRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []*models.AdoptionRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, request)
	}
	return out, rows.Err()
}

func (s *PostgresStore) HasActiveForAnimal(ctx context.Context, animalID id.AnimalID) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM adoption_requests
			WHERE animal_id = $1 AND status IN ('Requested', 'InterviewScheduled')
		)
	`, animalID.String()).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("check active requests: %w", err)
	}
	return active, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM adoption_requests GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[models.Status(status)] = n
	}
	return out, rows.Err()
}

func scanRequest(row interface{ Scan(dest ...any) error }) (*models.AdoptionRequest, error) {
	var (
		rawID, rawAdopter, rawAnimal, rawShelter, status string
		requestDate                                      time.Time
		approvedAt                                       sql.NullTime
		version                                          int
		interviewID                                      sql.NullString
		interviewDate                                    sql.NullTime
	)
	err := row.Scan(&rawID, &rawAdopter, &rawAnimal, &rawShelter, &status, &requestDate,
		&approvedAt, &version, &interviewID, &interviewDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan request: %w", err)
	}

	requestID, err := id.ParseRequestID(rawID)
	if err != nil {
		return nil, err
	}
	adopterID, err := id.ParseUserID(rawAdopter)
	if err != nil {
		return nil, err
	}
	animalID, err := id.ParseAnimalID(rawAnimal)
	if err != nil {
		return nil, err
	}
	shelterID, err := id.ParseShelterID(rawShelter)
	if err != nil {
		return nil, err
	}

	request := &models.AdoptionRequest{
		ID:          requestID,
		AdopterID:   adopterID,
		AnimalID:    animalID,
		ShelterID:   shelterID,
		Status:      models.Status(status),
		RequestDate: requestDate,
		Version:     version,
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		request.ApprovedAt = &t
	}
	if interviewID.Valid {
		ivID, err := id.ParseInterviewID(interviewID.String)
		if err != nil {
			return nil, err
		}
		iv := &models.Interview{
			ID:        ivID,
			RequestID: requestID,
			AdopterID: adopterID,
			AnimalID:  animalID,
		}
		if interviewDate.Valid {
			d := interviewDate.Time
			iv.InterviewDate = &d
		}
		request.Interview = iv
	}
	return request, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
