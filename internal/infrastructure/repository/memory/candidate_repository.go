package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
)

// CandidateRepository keeps candidate sets in insertion order.
type CandidateRepository struct {
	mu   sync.RWMutex
	sets []candidate.Set
}

func NewCandidateRepository(sets []candidate.Set) *CandidateRepository {
	out := make([]candidate.Set, 0, len(sets))
	for _, s := range sets {
		out = append(out, cloneCandidate(s))
	}

	return &CandidateRepository{sets: out}
}

func (r *CandidateRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.sets)), nil
}

func (r *CandidateRepository) SearchByName(_ context.Context, query string, limit int) ([]candidate.Set, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]candidate.Set, 0)
	for _, s := range r.sets {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(s.AthleteName), needle) {
			out = append(out, cloneCandidate(s))
		}
	}

	return out, nil
}

// page returns a copy of the [skip, skip+limit) window.
func (r *CandidateRepository) page(skip, limit int) []candidate.Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	if skip >= len(r.sets) || limit <= 0 {
		return nil
	}
	end := len(r.sets)
	if limit < end-skip {
		end = skip + limit
	}

	out := make([]candidate.Set, 0, end-skip)
	for _, s := range r.sets[skip:end] {
		out = append(out, cloneCandidate(s))
	}
	return out
}

func cloneCandidate(s candidate.Set) candidate.Set {
	s.Images = append([]candidate.Image(nil), s.Images...)
	return s
}
