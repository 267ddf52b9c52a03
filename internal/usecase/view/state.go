package view

import (
	"sync"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// State holds the record collection cached for one viewing session. The
// collection is always replaced wholesale after a load or mutation, never
// patched incrementally. A monotonically increasing load token guards against
// an older in-flight listing landing after a newer one completed: stale
// results are dropped.
type State struct {
	mu      sync.Mutex
	seq     uint64
	records []*domain.MonthlyRecord
}

// NewState creates an empty view state.
func NewState() *State {
	return &State{}
}

// BeginLoad issues the token for a new in-flight listing, superseding any
// listing still in flight.
func (s *State) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// CompleteLoad installs records when token still identifies the newest load.
// A completion that was superseded by a later BeginLoad is ignored and
// reported false.
func (s *State) CompleteLoad(token uint64, records []*domain.MonthlyRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.records = records
	return true
}

// Records returns a copy of the cached collection, safe to sort and filter
// without touching the cache.
func (s *State) Records() []*domain.MonthlyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.MonthlyRecord, len(s.records))
	copy(out, s.records)
	return out
}
