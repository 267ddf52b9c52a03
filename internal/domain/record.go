package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyRecord represents one month's investment return for a user.
// At most one record exists per (UserID, Year, Month) pair; the store enforces
// this with a uniqueness constraint. Year and Month are immutable after
// creation; only InvestmentFirm and Percentage may change.
type MonthlyRecord struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Year           int
	Month          int
	Percentage     decimal.Decimal // signed; a losing month is negative
	InvestmentFirm string
	CreatedAt      time.Time
}

// Period returns the calendar month the record reports on.
func (r *MonthlyRecord) Period() Period {
	return Period{Year: r.Year, Month: r.Month}
}

// RecordCandidate is a not-yet-validated submission. Percentage uses
// NullDecimal so a missing value is distinguishable from an entered zero.
type RecordCandidate struct {
	Year           int
	Month          int
	Percentage     decimal.NullDecimal
	InvestmentFirm string
}
