package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
	"github.com/riskibarqy/athlete-imagery/internal/domain/selection"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultUploadConcurrency = 4

// FinalizeInput is a selection for one slot of one athlete.
type FinalizeInput struct {
	AthleteID   string
	AthleteName string
	Images      []selection.Image
}

// GalleryResult reports how a gallery finalization was absorbed.
type GalleryResult struct {
	Appended int
	Skipped  int
}

type FinalizationService struct {
	athleteRepo       athlete.Repository
	galleryRepo       gallery.Repository
	uploader          ImageUploader
	observer          FinalizationObserver
	logger            *logging.Logger
	uploadConcurrency int
	now               func() time.Time
}

type FinalizationOption func(*FinalizationService)

func WithUploadConcurrency(n int) FinalizationOption {
	return func(s *FinalizationService) {
		if n > 0 {
			s.uploadConcurrency = n
		}
	}
}

func WithFinalizationObserver(observer FinalizationObserver) FinalizationOption {
	return func(s *FinalizationService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func NewFinalizationService(
	athleteRepo athlete.Repository,
	galleryRepo gallery.Repository,
	uploader ImageUploader,
	logger *logging.Logger,
	opts ...FinalizationOption,
) *FinalizationService {
	if logger == nil {
		logger = logging.Default()
	}

	s := &FinalizationService{
		athleteRepo:       athleteRepo,
		galleryRepo:       galleryRepo,
		uploader:          uploader,
		observer:          nopObserver{},
		logger:            logger,
		uploadConcurrency: defaultUploadConcurrency,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FinalizeHero uploads exactly one image and overwrites the athlete hero image.
func (s *FinalizationService) FinalizeHero(ctx context.Context, input FinalizeInput) (err error) {
	ctx, span := startOperation(ctx, "FinalizationService.FinalizeHero", attribute.String("athlete_id", input.AthleteID))
	defer span.end(&err)

	return s.finalizeSingle(ctx, selection.SlotHero, athlete.ImageFieldHero, input)
}

// FinalizeCover uploads exactly one image and overwrites the athlete cover image.
func (s *FinalizationService) FinalizeCover(ctx context.Context, input FinalizeInput) (err error) {
	ctx, span := startOperation(ctx, "FinalizationService.FinalizeCover", attribute.String("athlete_id", input.AthleteID))
	defer span.end(&err)

	return s.finalizeSingle(ctx, selection.SlotCover, athlete.ImageFieldCover, input)
}

func (s *FinalizationService) finalizeSingle(ctx context.Context, slot selection.Slot, field athlete.ImageField, input FinalizeInput) error {
	input.AthleteID = strings.TrimSpace(input.AthleteID)
	if _, err := s.checkPreconditions(ctx, slot, input); err != nil {
		return err
	}

	uploaded, err := s.uploader.Upload(ctx, UploadRequest{
		AthleteID: input.AthleteID,
		Slot:      slot,
		SourceURL: strings.TrimSpace(input.Images[0].URL),
	})
	if err != nil {
		s.observer.ObserveFinalization(slot, OutcomeFailure)
		s.logger.WarnContext(ctx, "image upload failed", "slot", slot, "athlete_id", input.AthleteID, "source_url", input.Images[0].URL, "error", err)
		return fmt.Errorf("upload %s image: %w", slot, err)
	}

	matched, err := s.athleteRepo.SetImage(ctx, input.AthleteID, field, uploaded.URL, s.now().UTC())
	if err != nil {
		s.observer.ObserveFinalization(slot, OutcomeFailure)
		return fmt.Errorf("%w: set %s image: %w", ErrStore, slot, err)
	}
	if !matched {
		// The athlete vanished between the existence check and the write.
		s.observer.ObserveFinalization(slot, OutcomeFailure)
		return fmt.Errorf("%w: set %s image: athlete=%s not matched", ErrStore, slot, input.AthleteID)
	}

	s.observer.ObserveFinalization(slot, OutcomeSuccess)
	s.logger.InfoContext(ctx, "image finalized", "slot", slot, "athlete_id", input.AthleteID, "url", uploaded.URL)
	return nil
}

// FinalizeGallery uploads every distinct image concurrently and appends the
// hosted copies to the athlete gallery, skipping source URLs already present.
// After any upload failure the call fails once all uploads settle; entries
// appended before that stay in place.
func (s *FinalizationService) FinalizeGallery(ctx context.Context, input FinalizeInput) (_ GalleryResult, err error) {
	ctx, span := startOperation(ctx, "FinalizationService.FinalizeGallery",
		attribute.String("athlete_id", input.AthleteID),
		attribute.Int("images", len(input.Images)),
	)
	defer span.end(&err)

	input.AthleteID = strings.TrimSpace(input.AthleteID)
	input.AthleteName = strings.TrimSpace(input.AthleteName)
	a, err := s.checkPreconditions(ctx, selection.SlotGallery, input)
	if err != nil {
		return GalleryResult{}, err
	}
	if input.AthleteName == "" {
		input.AthleteName = a.Name()
	}

	images := selection.Distinct(input.Images)
	var appended, skipped atomic.Int64

	p := pool.New().
		WithMaxGoroutines(s.uploadConcurrency).
		WithErrors().
		WithContext(ctx)
	for _, img := range images {
		p.Go(func(ctx context.Context) error {
			added, err := s.appendGalleryImage(ctx, input, img)
			if err != nil {
				return err
			}
			if added {
				appended.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	err = p.Wait()

	result := GalleryResult{Appended: int(appended.Load()), Skipped: int(skipped.Load())}
	span.annotate(attribute.Int("appended", result.Appended), attribute.Int("skipped", result.Skipped))
	s.observer.ObserveGalleryMerge(result.Appended, result.Skipped)
	if err != nil {
		s.observer.ObserveFinalization(selection.SlotGallery, OutcomeFailure)
		s.logger.WarnContext(ctx, "gallery finalization failed",
			"athlete_id", input.AthleteID,
			"appended", result.Appended,
			"skipped", result.Skipped,
			"error", err,
		)
		return result, fmt.Errorf("finalize gallery: %w", err)
	}

	s.observer.ObserveFinalization(selection.SlotGallery, OutcomeSuccess)
	s.logger.InfoContext(ctx, "gallery finalized",
		"athlete_id", input.AthleteID,
		"appended", result.Appended,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *FinalizationService) appendGalleryImage(ctx context.Context, input FinalizeInput, img selection.Image) (bool, error) {
	uploaded, err := s.uploader.Upload(ctx, UploadRequest{
		AthleteID: input.AthleteID,
		Slot:      selection.SlotGallery,
		SourceURL: img.URL,
	})
	if err != nil {
		return false, fmt.Errorf("upload gallery image %s: %w", img.URL, err)
	}

	now := s.now().UTC()
	added, err := s.galleryRepo.AppendIfAbsent(ctx, gallery.Entry{
		AthleteID:   input.AthleteID,
		AthleteName: input.AthleteName,
		URL:         uploaded.URL,
		OriginalURL: img.URL,
		Source:      img.Source,
		Text:        img.Text,
		SelectedAt:  now,
		CreatedAt:   now,
	})
	if err != nil {
		return false, fmt.Errorf("%w: append gallery entry %s: %w", ErrStore, img.URL, err)
	}

	return added, nil
}

// checkPreconditions validates the request shape and the athlete before any upload.
func (s *FinalizationService) checkPreconditions(ctx context.Context, slot selection.Slot, input FinalizeInput) (athlete.Athlete, error) {
	if err := selection.Validate(slot, input.AthleteID, input.Images); err != nil {
		s.observer.ObserveFinalization(slot, OutcomeInvalid)
		return athlete.Athlete{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	a, exists, err := s.athleteRepo.GetByID(ctx, input.AthleteID)
	if err != nil {
		s.observer.ObserveFinalization(slot, OutcomeFailure)
		return athlete.Athlete{}, fmt.Errorf("%w: get athlete: %w", ErrStore, err)
	}
	if !exists {
		s.observer.ObserveFinalization(slot, OutcomeInvalid)
		return athlete.Athlete{}, fmt.Errorf("%w: athlete=%s does not exist", ErrInvalidInput, input.AthleteID)
	}

	return a, nil
}
