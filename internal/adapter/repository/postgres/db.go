package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=returntrack sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	invitation_code TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	CONSTRAINT users_email_key UNIQUE (email),
	CONSTRAINT users_phone_key UNIQUE (phone)
);

CREATE TABLE IF NOT EXISTS monthly_records (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users (id),
	year INT NOT NULL,
	month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
	percentage DECIMAL NOT NULL,
	investment_firm TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT monthly_records_user_period_key UNIQUE (user_id, year, month)
);
`

// EnsureSchema creates the tables and constraints if they do not exist yet.
// Idempotent, so it runs unconditionally at startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// uniqueViolation is the Postgres error code for a broken unique constraint.
const uniqueViolation = "23505"

// translateError turns a driver error into the domain taxonomy: unique
// violations become *domain.ConstraintViolation identified by constraint
// name, everything else becomes *domain.StoreError.
func translateError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "monthly_records_user_period_key":
			return &domain.ConstraintViolation{Rule: domain.UniquePeriod}
		case "users_email_key":
			return &domain.ConstraintViolation{Rule: domain.UniqueEmail}
		case "users_phone_key":
			return &domain.ConstraintViolation{Rule: domain.UniquePhone}
		}
	}
	return &domain.StoreError{Op: op, Err: err}
}
