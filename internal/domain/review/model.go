package review

import (
	"strings"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
)

// Row is one candidate set joined with its athlete (zero or one) and its
// finalized gallery entries (zero or many).
type Row struct {
	Candidate candidate.Set
	Athlete   *athlete.Athlete
	Gallery   []gallery.Entry
}

// Flags is the finalization state derived for one row. HeroImage and
// CoverImage are nil when the athlete record is missing.
type Flags struct {
	HeroImage           *string
	CoverImage          *string
	HeroImageFinalized  bool
	CoverImageFinalized bool
	GalleryFinalized    bool
	GalleryFinalizedAt  *time.Time
	GalleryImages       []gallery.Entry
}

// FullyFinalized reports whether every slot has been finalized.
func (f Flags) FullyFinalized() bool {
	return f.HeroImageFinalized && f.CoverImageFinalized && f.GalleryFinalized
}

// Derive computes Flags from the joined records. It has no side effects.
func Derive(a *athlete.Athlete, entries []gallery.Entry) Flags {
	var flags Flags
	if a != nil {
		hero := a.HeroImage
		cover := a.CoverImage
		flags.HeroImage = &hero
		flags.CoverImage = &cover
		flags.HeroImageFinalized = strings.TrimSpace(hero) != ""
		flags.CoverImageFinalized = strings.TrimSpace(cover) != ""
	}

	flags.GalleryImages = make([]gallery.Entry, len(entries))
	copy(flags.GalleryImages, entries)
	flags.GalleryFinalized = len(entries) > 0

	for i := range entries {
		selectedAt := entries[i].SelectedAt
		if flags.GalleryFinalizedAt == nil || selectedAt.After(*flags.GalleryFinalizedAt) {
			flags.GalleryFinalizedAt = &selectedAt
		}
	}

	return flags
}

// Counts summarises finalization progress across all candidate sets.
type Counts struct {
	Total          int64
	HeroMissing    int64
	CoverMissing   int64
	GalleryMissing int64
	FullyFinalized int64
}

func (c *Counts) Add(f Flags) {
	c.Total++
	if !f.HeroImageFinalized {
		c.HeroMissing++
	}
	if !f.CoverImageFinalized {
		c.CoverMissing++
	}
	if !f.GalleryFinalized {
		c.GalleryMissing++
	}
	if f.FullyFinalized() {
		c.FullyFinalized++
	}
}
