package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
	"go.opentelemetry.io/otel/attribute"
)

type GalleryService struct {
	galleryRepo gallery.Repository
}

func NewGalleryService(galleryRepo gallery.Repository) *GalleryService {
	return &GalleryService{galleryRepo: galleryRepo}
}

// ListGallery returns the finalized gallery of one athlete, oldest selection first.
func (s *GalleryService) ListGallery(ctx context.Context, athleteID string) (_ []gallery.Entry, err error) {
	ctx, span := startOperation(ctx, "GalleryService.ListGallery", attribute.String("athlete_id", athleteID))
	defer span.end(&err)

	athleteID = strings.TrimSpace(athleteID)
	if athleteID == "" {
		return nil, fmt.Errorf("%w: athlete id is required", ErrInvalidInput)
	}

	entries, err := s.galleryRepo.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("%w: list gallery: %w", ErrStore, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SelectedAt.Before(entries[j].SelectedAt)
	})
	span.annotate(attribute.Int("entries", len(entries)))
	return entries, nil
}
