package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// recordRepository implements domain.RecordRepository
type recordRepository struct {
	db *DB
}

// NewRecordRepository creates a new monthly record repository
func NewRecordRepository(db *DB) domain.RecordRepository {
	return &recordRepository{db: db}
}

// Create inserts a new record scoped to its owner
func (r *recordRepository) Create(ctx context.Context, record *domain.MonthlyRecord) error {
	query := `
		INSERT INTO monthly_records (id, user_id, year, month, percentage, investment_firm, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Year,
		record.Month,
		record.Percentage.String(),
		record.InvestmentFirm,
		record.CreatedAt,
	)
	if err != nil {
		return translateError("records.create", err)
	}

	return nil
}

// Update mutates investment_firm and percentage of a record owned by userID.
// Year and month stay untouched: they are immutable after creation.
func (r *recordRepository) Update(ctx context.Context, id, userID uuid.UUID, investmentFirm string, percentage decimal.Decimal) (*domain.MonthlyRecord, error) {
	query := `
		UPDATE monthly_records
		SET investment_firm = $1, percentage = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, year, month, percentage, investment_firm, created_at
	`

	row := r.db.QueryRowContext(ctx, query, investmentFirm, percentage.String(), id, userID)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, translateError("records.update", err)
	}

	return record, nil
}

// Delete removes a record owned by userID. A row that is already gone is not
// an error; the delete is idempotent from the caller's perspective.
func (r *recordRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM monthly_records WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return translateError("records.delete", err)
	}

	return nil
}

// GetByID fetches a record by id alone. Ownership is enforced at write time,
// not read time, so no user filter here.
func (r *recordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonthlyRecord, error) {
	query := `
		SELECT id, user_id, year, month, percentage, investment_firm, created_at
		FROM monthly_records
		WHERE id = $1
	`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError("records.get", err)
	}

	return record, nil
}

// ListForUser returns every record owned by userID. No ORDER BY: the window
// selector imposes its own ordering.
func (r *recordRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.MonthlyRecord, error) {
	query := `
		SELECT id, user_id, year, month, percentage, investment_firm, created_at
		FROM monthly_records
		WHERE user_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, translateError("records.list", err)
	}
	defer rows.Close()

	records := make([]*domain.MonthlyRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, translateError("records.list", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("records.list", err)
	}

	return records, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*domain.MonthlyRecord, error) {
	var record domain.MonthlyRecord
	var percentageStr string

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Year,
		&record.Month,
		&percentageStr,
		&record.InvestmentFirm,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse percentage (DECIMAL)
	percentage, err := decimal.NewFromString(percentageStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse percentage: %w", err)
	}
	record.Percentage = percentage

	return &record, nil
}
