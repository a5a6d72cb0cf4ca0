//go:build integration

package containers

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the DDL documented on each Postgres store. Tables are created
// in dependency order; partial unique indexes carry the invariants the stores
// rely on for conflict detection.
const schema = `
CREATE TABLE IF NOT EXISTS shelters (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    location    TEXT NOT NULL,
    phone       TEXT,
    description TEXT,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    shelter_id UUID NOT NULL REFERENCES shelters (id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS animals (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    age         INT NOT NULL,
    breed       TEXT,
    state       TEXT NOT NULL,
    category_id UUID NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
    shelter_id  UUID NOT NULL REFERENCES shelters (id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    role          INT  NOT NULL,
    activated     BOOLEAN NOT NULL,
    password_hash BYTEA,
    address       TEXT,
    phone         TEXT,
    admin_type    TEXT,
    staff_type    TEXT,
    hired_date    TIMESTAMPTZ,
    shelter_id    UUID REFERENCES shelters (id) ON DELETE CASCADE
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS adoption_requests (
    id           UUID PRIMARY KEY,
    adopter_id   UUID NOT NULL REFERENCES users (id),
    animal_id    UUID NOT NULL REFERENCES animals (id),
    shelter_id   UUID NOT NULL REFERENCES shelters (id),
    status       TEXT NOT NULL,
    request_date TIMESTAMPTZ NOT NULL,
    approved_at  TIMESTAMPTZ,
    version      INT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS adoption_requests_active_pair
    ON adoption_requests (adopter_id, animal_id)
    WHERE status IN ('Requested', 'InterviewScheduled');

CREATE TABLE IF NOT EXISTS interviews (
    id             UUID PRIMARY KEY,
    request_id     UUID NOT NULL UNIQUE
        REFERENCES adoption_requests (id) ON DELETE CASCADE,
    adopter_id     UUID NOT NULL,
    animal_id      UUID NOT NULL,
    interview_date TIMESTAMPTZ
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// already applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("shelterhub_test"),
		tcpostgres.WithUsername("shelterhub"),
		tcpostgres.WithPassword("shelterhub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Container lifetime is owned by the singleton Manager; Ryuk cleans up.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables empties the named tables between tests. CASCADE follows
// foreign keys, so callers only need to name the roots they touched.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE")
	return err
}
