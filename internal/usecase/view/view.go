// Package view contains the pure presentation transformations applied to an
// in-memory record collection: free-text firm filtering and single-column
// sorting with direction toggling. Nothing here touches the store, and the
// source slice is never mutated — it doubles as the store's cached state.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// Column identifies a sortable column in the records table.
type Column string

const (
	ColumnFirm       Column = "investmentFirm"
	ColumnPeriod     Column = "period"
	ColumnPercentage Column = "percentage"
)

// Direction of a sort.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec pairs the single active column with its direction.
type SortSpec struct {
	Column    Column
	Direction Direction
}

// FilterByFirm returns the records whose firm name contains query,
// case-insensitively. A blank or whitespace-only query is a no-op and
// returns the collection unchanged.
func FilterByFirm(records []*domain.MonthlyRecord, query string) []*domain.MonthlyRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	matched := make([]*domain.MonthlyRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.InvestmentFirm), q) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Sort orders a copy of records by spec. Firm names compare with locale-aware
// collation, periods compare year-then-month, percentages numerically.
// Descending inverts the whole key.
func Sort(records []*domain.MonthlyRecord, spec SortSpec) []*domain.MonthlyRecord {
	sorted := make([]*domain.MonthlyRecord, len(records))
	copy(sorted, records)

	// Collators are not safe for concurrent use, so build one per call.
	c := collate.New(language.English, collate.IgnoreCase)

	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := compareColumn(c, sorted[i], sorted[j], spec.Column)
		if spec.Direction == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})
	return sorted
}

func compareColumn(c *collate.Collator, a, b *domain.MonthlyRecord, column Column) int {
	switch column {
	case ColumnFirm:
		return c.CompareString(a.InvestmentFirm, b.InvestmentFirm)
	case ColumnPercentage:
		return a.Percentage.Cmp(b.Percentage)
	default:
		// Period: year primary, month secondary.
		return a.Period().Compare(b.Period())
	}
}

// Apply composes the firm filter and the active sort for display.
func Apply(records []*domain.MonthlyRecord, filterText string, spec SortSpec) []*domain.MonthlyRecord {
	return Sort(FilterByFirm(records, filterText), spec)
}

// FirmOptions returns the distinct firm names present in records, collated
// ascending. Feeds the filter dropdown.
func FirmOptions(records []*domain.MonthlyRecord) []string {
	seen := make(map[string]struct{}, len(records))
	firms := make([]string, 0, len(records))
	for _, r := range records {
		if r.InvestmentFirm == "" {
			continue
		}
		if _, ok := seen[r.InvestmentFirm]; ok {
			continue
		}
		seen[r.InvestmentFirm] = struct{}{}
		firms = append(firms, r.InvestmentFirm)
	}

	c := collate.New(language.English, collate.IgnoreCase)
	c.SortStrings(firms)
	return firms
}

// SortState tracks the single active sort column for a view session.
// Exactly one column is active at a time: toggling the active column flips
// its direction, choosing a different column discards the previous key and
// starts ascending.
type SortState struct {
	spec SortSpec
}

// NewSortState creates a state with no active column.
func NewSortState() *SortState {
	return &SortState{}
}

// Toggle activates column and returns the resulting spec.
func (s *SortState) Toggle(column Column) SortSpec {
	if s.spec.Column == column {
		if s.spec.Direction == Ascending {
			s.spec.Direction = Descending
		} else {
			s.spec.Direction = Ascending
		}
	} else {
		s.spec = SortSpec{Column: column, Direction: Ascending}
	}
	return s.spec
}

// Spec returns the currently active sort.
func (s *SortState) Spec() SortSpec {
	return s.spec
}
