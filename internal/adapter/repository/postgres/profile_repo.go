package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// profileRepository implements domain.ProfileRepository
type profileRepository struct {
	db *DB
}

// NewProfileRepository creates a new user profile repository
func NewProfileRepository(db *DB) domain.ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts a new profile row. Duplicate email or phone fail with a
// typed conflict naming the constraint that fired.
func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, phone, invitation_code, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.Phone,
		profile.InvitationCode,
		profile.IsActive,
	)
	if err != nil {
		return translateError("profiles.create", err)
	}

	return nil
}

// GetByID fetches a profile by its identity subject. Returns (nil, nil) when
// none exists so the caller can branch into registration.
func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, invitation_code, is_active
		FROM users
		WHERE id = $1
	`

	var profile domain.UserProfile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
		&profile.Phone,
		&profile.InvitationCode,
		&profile.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError("profiles.get", err)
	}

	return &profile, nil
}
