package domain

import "time"

// Period identifies a calendar month.
type Period struct {
	Year  int
	Month int
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// FirstDay returns midnight UTC on the first day of the period's month.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the period n calendar months away from p (n may be
// negative). time.Date normalizes out-of-range month values, so crossing a
// year boundary never produces a negative month index.
func (p Period) AddMonths(n int) Period {
	return PeriodOf(time.Date(p.Year, time.Month(p.Month+n), 1, 0, 0, 0, 0, time.UTC))
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// After reports whether p is strictly later than q.
func (p Period) After(q Period) bool {
	return q.Before(p)
}

// Compare returns -1 if p is earlier than q, 1 if later, 0 if equal.
func (p Period) Compare(q Period) int {
	switch {
	case p.Before(q):
		return -1
	case q.Before(p):
		return 1
	default:
		return 0
	}
}
