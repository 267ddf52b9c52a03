package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordRepository defines the interface for monthly record persistence operations
type RecordRepository interface {
	// Create inserts a new record scoped to its owner.
	// A duplicate (user, year, month) insert fails with *ConstraintViolation.
	Create(ctx context.Context, record *MonthlyRecord) error

	// Update mutates the two mutable fields of a record owned by userID.
	// Returns ErrNotFound when id does not resolve to an owned record.
	Update(ctx context.Context, id, userID uuid.UUID, investmentFirm string, percentage decimal.Decimal) (*MonthlyRecord, error)

	// Delete removes a record owned by userID. Deleting a row that is
	// already gone is not an error; transport failures are.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// GetByID fetches a record by id alone and returns (nil, nil) when no
	// row matches. Ownership is enforced at write time, not read time.
	GetByID(ctx context.Context, id uuid.UUID) (*MonthlyRecord, error)

	// ListForUser returns every record owned by userID.
	// The store guarantees no ordering; callers must impose their own.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*MonthlyRecord, error)
}

// ProfileRepository defines the interface for user profile persistence operations
type ProfileRepository interface {
	// Create inserts a new profile. A duplicate email or phone fails with
	// *ConstraintViolation naming the rule.
	Create(ctx context.Context, profile *UserProfile) error

	// GetByID fetches a profile by its identity subject.
	// Returns (nil, nil) when none exists.
	GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
}
