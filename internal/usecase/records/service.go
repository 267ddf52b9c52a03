package records

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/returntrack/returntrack-backend/internal/domain"
	"github.com/returntrack/returntrack-backend/internal/usecase/validation"
)

// RecordService handles monthly record operations for an authenticated user.
// Every mutation requires a session; reads by id deliberately do not check
// ownership (ownership is enforced at write time).
type RecordService struct {
	RecordRepo domain.RecordRepository

	// Now supplies the clock for window and validation arithmetic.
	Now func() time.Time
}

// NewRecordService creates a new RecordService instance
func NewRecordService(recordRepo domain.RecordRepository) *RecordService {
	return &RecordService{
		RecordRepo: recordRepo,
		Now:        time.Now,
	}
}

// Create validates a candidate and persists it scoped to the caller.
// A rejected candidate never reaches the store. A duplicate (user, year,
// month) insert surfaces as *domain.ConstraintViolation from the repository.
func (s *RecordService) Create(ctx context.Context, session *domain.Session, candidate domain.RecordCandidate) (*domain.MonthlyRecord, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}

	if res := validation.Validate(candidate, s.Now()); !res.OK() {
		return nil, res.Err()
	}

	record := &domain.MonthlyRecord{
		ID:             uuid.New(),
		UserID:         session.UserID,
		Year:           candidate.Year,
		Month:          candidate.Month,
		Percentage:     candidate.Percentage.Decimal,
		InvestmentFirm: strings.TrimSpace(candidate.InvestmentFirm),
		CreatedAt:      s.Now(),
	}

	if err := s.RecordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Update mutates the two fields an edit may change. Year and month are
// locked after creation, mirroring the edit form.
func (s *RecordService) Update(ctx context.Context, session *domain.Session, id uuid.UUID, investmentFirm string, percentage decimal.Decimal) (*domain.MonthlyRecord, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}

	np := decimal.NullDecimal{Decimal: percentage, Valid: true}
	if res := validation.ValidateMutable(investmentFirm, np); !res.OK() {
		return nil, res.Err()
	}

	return s.RecordRepo.Update(ctx, id, session.UserID, strings.TrimSpace(investmentFirm), percentage)
}

// Delete removes a record owned by the caller. Confirmation of the
// destructive intent is the shell's responsibility; by the time this runs the
// user already said yes.
func (s *RecordService) Delete(ctx context.Context, session *domain.Session, id uuid.UUID) error {
	if session == nil {
		return domain.ErrUnauthorized
	}

	return s.RecordRepo.Delete(ctx, id, session.UserID)
}

// GetByID fetches a record for edit-form prefill. Returns (nil, nil) when no
// row matches, regardless of ownership.
func (s *RecordService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonthlyRecord, error) {
	return s.RecordRepo.GetByID(ctx, id)
}

// ListWindow returns at most months records whose period falls inside the
// rolling window ending at the current month, most recent first. The store
// gives no ordering guarantee, so ordering is imposed here.
func (s *RecordService) ListWindow(ctx context.Context, userID uuid.UUID, months int) ([]*domain.MonthlyRecord, error) {
	all, err := s.RecordRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return selectWindow(all, months, s.Now()), nil
}
