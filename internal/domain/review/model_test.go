package review

import (
	"testing"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
)

func TestDerive(t *testing.T) {
	early := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)

	tests := []struct {
		name         string
		athlete      *athlete.Athlete
		entries      []gallery.Entry
		hero         bool
		cover        bool
		galleryDone  bool
		finalizedAt  *time.Time
		nilImageRefs bool
	}{
		{
			name:         "missing athlete yields null image refs",
			athlete:      nil,
			nilImageRefs: true,
		},
		{
			name:    "empty strings are not finalized",
			athlete: &athlete.Athlete{ID: "a1", HeroImage: "", CoverImage: "  "},
		},
		{
			name:    "hero only",
			athlete: &athlete.Athlete{ID: "a1", HeroImage: "https://cdn.example/h.jpg"},
			hero:    true,
		},
		{
			name:    "hero and cover are independent",
			athlete: &athlete.Athlete{ID: "a1", CoverImage: "https://cdn.example/c.jpg"},
			cover:   true,
		},
		{
			name:    "gallery finalized at latest selection",
			athlete: &athlete.Athlete{ID: "a1"},
			entries: []gallery.Entry{
				{OriginalURL: "https://img.example/2.jpg", SelectedAt: late},
				{OriginalURL: "https://img.example/1.jpg", SelectedAt: early},
			},
			galleryDone: true,
			finalizedAt: &late,
		},
		{
			name:         "gallery without athlete record",
			athlete:      nil,
			entries:      []gallery.Entry{{OriginalURL: "https://img.example/1.jpg", SelectedAt: early}},
			galleryDone:  true,
			finalizedAt:  &early,
			nilImageRefs: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			flags := Derive(tc.athlete, tc.entries)

			if flags.HeroImageFinalized != tc.hero {
				t.Fatalf("HeroImageFinalized=%v, want %v", flags.HeroImageFinalized, tc.hero)
			}
			if flags.CoverImageFinalized != tc.cover {
				t.Fatalf("CoverImageFinalized=%v, want %v", flags.CoverImageFinalized, tc.cover)
			}
			if flags.GalleryFinalized != tc.galleryDone {
				t.Fatalf("GalleryFinalized=%v, want %v", flags.GalleryFinalized, tc.galleryDone)
			}
			if (flags.HeroImage == nil) != tc.nilImageRefs || (flags.CoverImage == nil) != tc.nilImageRefs {
				t.Fatalf("unexpected image refs hero=%v cover=%v", flags.HeroImage, flags.CoverImage)
			}
			switch {
			case tc.finalizedAt == nil && flags.GalleryFinalizedAt != nil:
				t.Fatalf("expected nil GalleryFinalizedAt, got %s", flags.GalleryFinalizedAt)
			case tc.finalizedAt != nil && (flags.GalleryFinalizedAt == nil || !flags.GalleryFinalizedAt.Equal(*tc.finalizedAt)):
				t.Fatalf("GalleryFinalizedAt=%v, want %s", flags.GalleryFinalizedAt, tc.finalizedAt)
			}
			if len(flags.GalleryImages) != len(tc.entries) {
				t.Fatalf("expected %d gallery images, got %d", len(tc.entries), len(flags.GalleryImages))
			}
		})
	}
}

func TestDeriveDoesNotAliasInput(t *testing.T) {
	entries := []gallery.Entry{{OriginalURL: "https://img.example/1.jpg"}}
	flags := Derive(nil, entries)
	entries[0].OriginalURL = "mutated"

	if flags.GalleryImages[0].OriginalURL != "https://img.example/1.jpg" {
		t.Fatalf("derived flags alias caller slice")
	}
}

func TestCountsAdd(t *testing.T) {
	var counts Counts
	counts.Add(Derive(nil, nil))
	counts.Add(Derive(&athlete.Athlete{HeroImage: "h", CoverImage: "c"}, []gallery.Entry{{OriginalURL: "x"}}))
	counts.Add(Derive(&athlete.Athlete{HeroImage: "h"}, nil))

	if counts.Total != 3 {
		t.Fatalf("Total=%d", counts.Total)
	}
	if counts.HeroMissing != 1 || counts.CoverMissing != 2 || counts.GalleryMissing != 2 {
		t.Fatalf("unexpected missing counts: %+v", counts)
	}
	if counts.FullyFinalized != 1 {
		t.Fatalf("FullyFinalized=%d", counts.FullyFinalized)
	}
}
