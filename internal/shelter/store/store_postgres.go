package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"shelterhub/internal/shelter/models"
	id "shelterhub/pkg/domain"
	"shelterhub/pkg/platform/sentinel"
)

// Postgres stores for the shelter aggregate. The cascade/restrict rules are
// declared in the schema so the database enforces them even for writers that
// bypass the service layer:
//
//	CREATE TABLE shelters (
//	    id          UUID PRIMARY KEY,
//	    name        TEXT NOT NULL UNIQUE,
//	    location    TEXT NOT NULL,
//	    phone       TEXT,
//	    description TEXT,
//	    created_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE categories (
//	    id         UUID PRIMARY KEY,
//	    name       TEXT NOT NULL,
//	    shelter_id UUID NOT NULL REFERENCES shelters (id) ON DELETE CASCADE
//	);
//	CREATE TABLE animals (
//	    id          UUID PRIMARY KEY,
//	    name        TEXT NOT NULL,
//	    age         INT NOT NULL,
//	    breed       TEXT,
//	    state       TEXT NOT NULL,
//	    category_id UUID NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
//	    shelter_id  UUID NOT NULL REFERENCES shelters (id) ON DELETE RESTRICT
//	);
type PostgresShelterStore struct {
	db *sql.DB
}

func NewPostgresShelterStore(db *sql.DB) *PostgresShelterStore {
	return &PostgresShelterStore{db: db}
}

func (s *PostgresShelterStore) Save(ctx context.Context, shelter *models.Shelter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shelters (id, name, location, phone, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			phone = EXCLUDED.phone,
			description = EXCLUDED.description
	`,
		shelter.ID.String(), shelter.Name, shelter.Location, shelter.Phone,
		shelter.Description, shelter.CreatedAt,
	)
	if isUnique(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("save shelter: %w", err)
	}
	return nil
}

func (s *PostgresShelterStore) FindByID(ctx context.Context, shelterID id.ShelterID) (*models.Shelter, error) {
	var (
		rawID   string
		shelter models.Shelter
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, location, phone, description, created_at
		FROM shelters WHERE id = $1
	`, shelterID.String()).Scan(&rawID, &shelter.Name, &shelter.Location,
		&shelter.Phone, &shelter.Description, &shelter.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find shelter: %w", err)
	}
	shelter.ID, err = id.ParseShelterID(rawID)
	if err != nil {
		return nil, err
	}
	return &shelter, nil
}

// Delete removes the shelter row. The RESTRICT constraint on animals maps to
// sentinel.ErrRestricted.
func (s *PostgresShelterStore) Delete(ctx context.Context, shelterID id.ShelterID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shelters WHERE id = $1`, shelterID.String())
	if isRestricted(err) {
		return sentinel.ErrRestricted
	}
	if err != nil {
		return fmt.Errorf("delete shelter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresShelterStore) List(ctx context.Context) ([]*models.Shelter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, location, phone, description, created_at
		FROM shelters ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list shelters: %w", err)
	}
	defer rows.Close()

	var out []*models.Shelter
	for rows.Next() {
		var (
			rawID   string
			shelter models.Shelter
		)
		if err := rows.Scan(&rawID, &shelter.Name, &shelter.Location,
			&shelter.Phone, &shelter.Description, &shelter.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shelter: %w", err)
		}
		shelter.ID, err = id.ParseShelterID(rawID)
		if err != nil {
			return nil, err
		}
		out = append(out, &shelter)
	}
	return out, rows.Err()
}

func (s *PostgresShelterStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shelters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shelters: %w", err)
	}
	return n, nil
}

type PostgresCategoryStore struct {
	db *sql.DB
}

func NewPostgresCategoryStore(db *sql.DB) *PostgresCategoryStore {
	return &PostgresCategoryStore{db: db}
}

func (s *PostgresCategoryStore) Save(ctx context.Context, category *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, shelter_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, category.ID.String(), category.Name, category.ShelterID.String())
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (s *PostgresCategoryStore) FindByID(ctx context.Context, categoryID id.CategoryID) (*models.Category, error) {
	var rawID, rawShelter string
	var category models.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, shelter_id FROM categories WHERE id = $1
	`, categoryID.String()).Scan(&rawID, &category.Name, &rawShelter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category.ID, err = id.ParseCategoryID(rawID); err != nil {
		return nil, err
	}
	if category.ShelterID, err = id.ParseShelterID(rawShelter); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *PostgresCategoryStore) ListByShelter(ctx context.Context, shelterID id.ShelterID) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, shelter_id FROM categories WHERE shelter_id = $1 ORDER BY name
	`, shelterID.String())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		var rawID, rawShelter string
		var category models.Category
		if err := rows.Scan(&rawID, &category.Name, &rawShelter); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if category.ID, err = id.ParseCategoryID(rawID); err != nil {
			return nil, err
		}
		if category.ShelterID, err = id.ParseShelterID(rawShelter); err != nil {
			return nil, err
		}
		out = append(out, &category)
	}
	return out, rows.Err()
}

func (s *PostgresCategoryStore) Delete(ctx context.Context, categoryID id.CategoryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, categoryID.String())
	if isRestricted(err) {
		return sentinel.ErrRestricted
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresCategoryStore) DeleteByShelter(ctx context.Context, shelterID id.ShelterID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE shelter_id = $1`, shelterID.String())
	if err != nil {
		return 0, fmt.Errorf("delete categories by shelter: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type PostgresAnimalStore struct {
	db *sql.DB
}

func NewPostgresAnimalStore(db *sql.DB) *PostgresAnimalStore {
	return &PostgresAnimalStore{db: db}
}

func (s *PostgresAnimalStore) Save(ctx context.Context, animal *models.Animal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO animals (id, name, age, breed, state, category_id, shelter_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			breed = EXCLUDED.breed,
			state = EXCLUDED.state,
			category_id = EXCLUDED.category_id
	`,
		animal.ID.String(), animal.Name, animal.Age, animal.Breed,
		string(animal.State), animal.CategoryID.String(), animal.ShelterID.String(),
	)
	if err != nil {
		return fmt.Errorf("save animal: %w", err)
	}
	return nil
}

func (s *PostgresAnimalStore) FindByID(ctx context.Context, animalID id.AnimalID) (*models.Animal, error) {
	var rawID, rawCategory, rawShelter, state string
	var animal models.Animal
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, age, breed, state, category_id, shelter_id
		FROM animals WHERE id = $1
	`, animalID.String()).Scan(&rawID, &animal.Name, &animal.Age, &animal.Breed,
		&state, &rawCategory, &rawShelter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find animal: %w", err)
	}
	animal.State = models.AdoptionState(state)
	if animal.ID, err = id.ParseAnimalID(rawID); err != nil {
		return nil, err
	}
	if animal.CategoryID, err = id.ParseCategoryID(rawCategory); err != nil {
		return nil, err
	}
	if animal.ShelterID, err = id.ParseShelterID(rawShelter); err != nil {
		return nil, err
	}
	return &animal, nil
}

func (s *PostgresAnimalStore) ListByShelter(ctx context.Context, shelterID id.ShelterID) ([]*models.Animal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, age, breed, state, category_id, shelter_id
		FROM animals WHERE shelter_id = $1 ORDER BY name
	`, shelterID.String())
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()

	var out []*models.Animal
	for rows.Next() {
		var rawID, rawCategory, rawShelter, state string
		var animal models.Animal
		if err := rows.Scan(&rawID, &animal.Name, &animal.Age, &animal.Breed,
			&state, &rawCategory, &rawShelter); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animal.State = models.AdoptionState(state)
		if animal.ID, err = id.ParseAnimalID(rawID); err != nil {
			return nil, err
		}
		if animal.CategoryID, err = id.ParseCategoryID(rawCategory); err != nil {
			return nil, err
		}
		if animal.ShelterID, err = id.ParseShelterID(rawShelter); err != nil {
			return nil, err
		}
		out = append(out, &animal)
	}
	return out, rows.Err()
}

func (s *PostgresAnimalStore) CountByShelter(ctx context.Context, shelterID id.ShelterID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals WHERE shelter_id = $1`, shelterID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count animals by shelter: %w", err)
	}
	return n, nil
}

func (s *PostgresAnimalStore) Delete(ctx context.Context, animalID id.AnimalID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, animalID.String())
	if isRestricted(err) {
		return sentinel.ErrRestricted
	}
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresAnimalStore) DeleteByCategory(ctx context.Context, categoryID id.CategoryID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM animals WHERE category_id = $1`, categoryID.String())
	if err != nil {
		return 0, fmt.Errorf("delete animals by category: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresAnimalStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM animals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count animals: %w", err)
	}
	return n, nil
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isRestricted(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
