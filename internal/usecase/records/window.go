package records

import (
	"sort"
	"time"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// selectWindow filters records to the rolling window of n calendar months
// ending at the month containing now, orders them most recent first, and
// truncates to n. Fewer qualifying records than n are returned as-is.
//
// The window start is computed with calendar month arithmetic, so an n of 12
// evaluated in March correctly reaches back into the previous year.
func selectWindow(records []*domain.MonthlyRecord, n int, now time.Time) []*domain.MonthlyRecord {
	if n <= 0 {
		return nil
	}

	current := domain.PeriodOf(now)
	start := current.AddMonths(-(n - 1))

	kept := make([]*domain.MonthlyRecord, 0, len(records))
	for _, r := range records {
		p := r.Period()
		if !p.Before(start) && !p.After(current) {
			kept = append(kept, r)
		}
	}

	// Year descending, then month descending.
	sort.Slice(kept, func(i, j int) bool {
		return kept[j].Period().Before(kept[i].Period())
	})

	if len(kept) > n {
		kept = kept[:n]
	}
	return kept
}
