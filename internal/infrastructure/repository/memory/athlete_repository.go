package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
)

type AthleteRepository struct {
	mu       sync.RWMutex
	athletes map[string]athlete.Athlete
}

func NewAthleteRepository(athletes []athlete.Athlete) *AthleteRepository {
	index := make(map[string]athlete.Athlete, len(athletes))
	for _, a := range athletes {
		index[a.ID] = cloneAthlete(a)
	}

	return &AthleteRepository{athletes: index}
}

func (r *AthleteRepository) GetByID(_ context.Context, id string) (athlete.Athlete, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.athletes[id]
	if !ok {
		return athlete.Athlete{}, false, nil
	}

	return cloneAthlete(a), true, nil
}

func (r *AthleteRepository) SetImage(_ context.Context, id string, field athlete.ImageField, url string, updatedAt time.Time) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("unsupported image field %q", field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.athletes[id]
	if !ok {
		return false, nil
	}
	switch field {
	case athlete.ImageFieldHero:
		a.HeroImage = url
	case athlete.ImageFieldCover:
		a.CoverImage = url
	}
	a.UpdatedAt = updatedAt
	r.athletes[id] = a

	return true, nil
}

func cloneAthlete(a athlete.Athlete) athlete.Athlete {
	a.Disciplines = append([]athlete.Discipline(nil), a.Disciplines...)
	a.Teams = append([]athlete.Team(nil), a.Teams...)
	a.FederationAffiliations = append([]athlete.FederationAffiliation(nil), a.FederationAffiliations...)
	a.Events = append([]string(nil), a.Events...)
	return a
}
