package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

var (
	// ErrNotFound is returned when no analysis run has the requested ID.
	ErrNotFound = errors.New("analysis run not found")
)

// MemoryStore is a concurrency-safe in-memory store of analysis runs.
type MemoryStore struct {
	mu sync.RWMutex

	runs  map[string]*tourism.AnalysisRun
	order []string // IDs, oldest first

	// retention configuration
	maxRuns int           // max number of runs kept
	maxAge  time.Duration // optional max age for runs
	now     func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxRuns or maxAge is <= 0, that limit is disabled.
func NewMemoryStore(maxRuns int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]*tourism.AnalysisRun),
		maxRuns: maxRuns,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// SaveRun stores a run and enforces retention.
func (s *MemoryStore) SaveRun(run *tourism.AnalysisRun) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; !ok {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run

	// Enforce retention by count.
	if s.maxRuns > 0 && len(s.order) > s.maxRuns {
		over := len(s.order) - s.maxRuns
		for _, id := range s.order[:over] {
			delete(s.runs, id)
		}
		s.order = s.order[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.order); i++ {
			if !s.runs[s.order[i]].CreatedAt.Before(cutoff) {
				break
			}
			delete(s.runs, s.order[i])
		}
		s.order = s.order[i:]
	}
}

// GetRun returns the run with the given ID.
func (s *MemoryStore) GetRun(id string) (*tourism.AnalysisRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return run, nil
}

// ListRuns returns all retained runs, newest first.
func (s *MemoryStore) ListRuns() []*tourism.AnalysisRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*tourism.AnalysisRun, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.runs[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
