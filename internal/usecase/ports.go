package usecase

import (
	"context"

	"github.com/riskibarqy/athlete-imagery/internal/domain/selection"
)

// UploadRequest asks the upload gateway to host one source image.
type UploadRequest struct {
	AthleteID string
	Slot      selection.Slot
	SourceURL string
}

// UploadedImage is the hosted copy of a source image.
type UploadedImage struct {
	URL       string
	SourceURL string
}

// ImageUploader fetches a source image and re-hosts it. Implementations
// return errors wrapping ErrUpstreamFetch, ErrUploadProvider or
// ErrDependencyUnavailable.
type ImageUploader interface {
	Upload(ctx context.Context, req UploadRequest) (UploadedImage, error)
}

// FinalizationObserver receives finalization outcomes for metrics.
type FinalizationObserver interface {
	ObserveFinalization(slot selection.Slot, outcome string)
	ObserveGalleryMerge(appended, skipped int)
}

const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailure = "failure"
)

type nopObserver struct{}

func (nopObserver) ObserveFinalization(selection.Slot, string) {}
func (nopObserver) ObserveGalleryMerge(int, int)               {}
