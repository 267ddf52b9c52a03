// Package validation accepts or rejects a candidate record before it is
// submitted to the store. All rules are applied together so the caller sees
// every failure at once, and a rejected candidate never causes a network call.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// Validate applies every submission rule to a candidate record.
// Rules:
//  1. InvestmentFirm: required, non-empty after trimming
//  2. Percentage: required; any signed value is acceptable (a monthly return
//     can be negative, so no bounds are imposed)
//  3. Year: current year or the year before, nothing else
//  4. Month: 1-12
//  5. No future period: the selected (year, month) must be strictly before
//     the current month. The current month itself is rejected — a return is
//     reported only after the month has completed.
func Validate(c domain.RecordCandidate, now time.Time) domain.ValidationResult {
	var res domain.ValidationResult

	if strings.TrimSpace(c.InvestmentFirm) == "" {
		res.Add("investmentFirm", domain.ValidationRequired, "investment firm is required")
	}

	if !c.Percentage.Valid {
		res.Add("percentage", domain.ValidationRequired, "percentage is required")
	}

	currentYear := now.Year()
	yearOK := c.Year == currentYear || c.Year == currentYear-1
	if !yearOK {
		res.Add("year", domain.ValidationRange,
			fmt.Sprintf("year must be %d or %d", currentYear-1, currentYear))
	}

	monthOK := c.Month >= 1 && c.Month <= 12
	if !monthOK {
		res.Add("month", domain.ValidationRange, "month must be between 1 and 12")
	}

	// The future-period rule only makes sense once year and month are
	// individually plausible.
	if yearOK && monthOK {
		selected := domain.Period{Year: c.Year, Month: c.Month}
		current := domain.PeriodOf(now)
		if !selected.Before(current) {
			res.Add("month", domain.ValidationFutureDate,
				"only completed months can be reported")
		}
	}

	return res
}

// ValidateMutable checks the two fields an edit may change. Year and month
// are locked after creation, so the update path validates only these.
func ValidateMutable(investmentFirm string, percentage decimal.NullDecimal) domain.ValidationResult {
	var res domain.ValidationResult

	if strings.TrimSpace(investmentFirm) == "" {
		res.Add("investmentFirm", domain.ValidationRequired, "investment firm is required")
	}
	if !percentage.Valid {
		res.Add("percentage", domain.ValidationRequired, "percentage is required")
	}

	return res
}

// MonthOptions lists the months offerable for year: strictly prior months of
// the current year, or all twelve of the prior year. Any other year has no
// offerable months.
func MonthOptions(year int, now time.Time) []int {
	switch year {
	case now.Year():
		months := make([]int, 0, 11)
		for m := 1; m < int(now.Month()); m++ {
			months = append(months, m)
		}
		return months
	case now.Year() - 1:
		months := make([]int, 12)
		for i := range months {
			months[i] = i + 1
		}
		return months
	default:
		return nil
	}
}

// LatestValidMonth returns the most recent offerable month for year: the
// month before the current one for the current year, December for the prior
// year. ok is false when the year has no offerable months, which happens for
// the current year in January.
func LatestValidMonth(year int, now time.Time) (int, bool) {
	switch year {
	case now.Year():
		m := int(now.Month()) - 1
		return m, m >= 1
	case now.Year() - 1:
		return 12, true
	default:
		return 0, false
	}
}

// CorrectMonth keeps month when it is still offerable for year, and otherwise
// snaps the selection to the latest offerable month. Used when a year change
// invalidates the currently selected month.
func CorrectMonth(year, month int, now time.Time) (int, bool) {
	for _, m := range MonthOptions(year, now) {
		if m == month {
			return month, true
		}
	}
	return LatestValidMonth(year, now)
}
