package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
)

type GalleryRepository struct {
	mu        sync.RWMutex
	seq       int
	byAthlete map[string][]gallery.Entry
}

func NewGalleryRepository(entries []gallery.Entry) *GalleryRepository {
	r := &GalleryRepository{byAthlete: make(map[string][]gallery.Entry)}
	for _, e := range entries {
		r.insertLocked(e)
	}
	return r
}

func (r *GalleryRepository) AppendIfAbsent(_ context.Context, entry gallery.Entry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byAthlete[entry.AthleteID] {
		if existing.OriginalURL == entry.OriginalURL {
			return false, nil
		}
	}
	r.insertLocked(entry)

	return true, nil
}

func (r *GalleryRepository) ListByAthlete(_ context.Context, athleteID string) ([]gallery.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byAthlete[athleteID]
	out := make([]gallery.Entry, 0, len(entries))
	out = append(out, entries...)

	return out, nil
}

func (r *GalleryRepository) insertLocked(entry gallery.Entry) {
	if entry.ID == "" {
		r.seq++
		entry.ID = fmt.Sprintf("gallery-%06d", r.seq)
	}
	r.byAthlete[entry.AthleteID] = append(r.byAthlete[entry.AthleteID], entry)
}
