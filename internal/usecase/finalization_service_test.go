package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
	"github.com/riskibarqy/athlete-imagery/internal/domain/selection"
	"github.com/riskibarqy/athlete-imagery/internal/infrastructure/repository/memory"
	athletemock "github.com/riskibarqy/athlete-imagery/internal/mocks/domain/athlete"
	gallerymock "github.com/riskibarqy/athlete-imagery/internal/mocks/domain/gallery"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// spyUploader hosts every source under https://cdn.test/<slot>/<basename>.
type spyUploader struct {
	mu      sync.Mutex
	calls   []UploadRequest
	failFor map[string]error
}

func (u *spyUploader) Upload(_ context.Context, req UploadRequest) (UploadedImage, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, req)
	if err, ok := u.failFor[req.SourceURL]; ok {
		return UploadedImage{}, err
	}
	base := req.SourceURL[strings.LastIndex(req.SourceURL, "/")+1:]
	return UploadedImage{URL: "https://cdn.test/" + string(req.Slot) + "/" + base, SourceURL: req.SourceURL}, nil
}

func (u *spyUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	appended int
	skipped  int
}

func (o *recordingObserver) ObserveFinalization(slot selection.Slot, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, string(slot)+":"+outcome)
}

func (o *recordingObserver) ObserveGalleryMerge(appended, skipped int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.appended += appended
	o.skipped += skipped
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newMemoryFinalization(t *testing.T, uploader ImageUploader, opts ...FinalizationOption) (*FinalizationService, *memory.AthleteRepository, *memory.GalleryRepository) {
	t.Helper()
	athletes := memory.NewAthleteRepository(memory.SeedAthletes())
	galleryRepo := memory.NewGalleryRepository(nil)
	service := NewFinalizationService(athletes, galleryRepo, uploader, logging.NewNop(), opts...)
	service.now = func() time.Time { return fixedNow }
	return service, athletes, galleryRepo
}

func images(urls ...string) []selection.Image {
	out := make([]selection.Image, 0, len(urls))
	for _, u := range urls {
		out = append(out, selection.Image{URL: u})
	}
	return out
}

func TestFinalizeHero_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	athleteRepo := athletemock.NewRepository(t)
	galleryRepo := gallerymock.NewRepository(t)
	uploader := &spyUploader{}
	service := NewFinalizationService(athleteRepo, galleryRepo, uploader, logging.NewNop())
	service.now = func() time.Time { return fixedNow }

	athleteRepo.
		On("GetByID", mock.Anything, "ath-1").
		Return(athlete.Athlete{ID: "ath-1"}, true, nil).
		Once()
	athleteRepo.
		On("SetImage", mock.Anything, "ath-1", athlete.ImageFieldHero, "https://cdn.test/hero/h.jpg", fixedNow).
		Return(true, nil).
		Once()

	err := service.FinalizeHero(ctx, FinalizeInput{AthleteID: " ath-1 ", Images: images("http://x/h.jpg")})
	require.NoError(t, err)
	require.Equal(t, 1, uploader.count())
	require.Equal(t, selection.SlotHero, uploader.calls[0].Slot)
	galleryRepo.AssertNotCalled(t, "AppendIfAbsent", mock.Anything, mock.Anything)
}

func TestFinalizeSingleSlot_InvalidSelectionNeverUploads(t *testing.T) {
	t.Parallel()

	slots := []struct {
		slot     selection.Slot
		finalize func(*FinalizationService, context.Context, FinalizeInput) error
	}{
		{slot: selection.SlotHero, finalize: (*FinalizationService).FinalizeHero},
		{slot: selection.SlotCover, finalize: (*FinalizationService).FinalizeCover},
	}

	for _, tc := range slots {
		t.Run(string(tc.slot), func(t *testing.T) {
			t.Parallel()

			athleteRepo := athletemock.NewRepository(t)
			galleryRepo := gallerymock.NewRepository(t)
			uploader := &spyUploader{}
			observer := &recordingObserver{}
			service := NewFinalizationService(athleteRepo, galleryRepo, uploader, logging.NewNop(), WithFinalizationObserver(observer))

			for _, input := range []FinalizeInput{
				{AthleteID: "ath-1", Images: images("http://x/1.jpg", "http://x/2.jpg")},
				{AthleteID: "ath-1", Images: images("http://x/1.jpg", "http://x/2.jpg", "http://x/3.jpg")},
				{AthleteID: "ath-1"},
				{AthleteID: "", Images: images("http://x/1.jpg")},
				{AthleteID: "ath-1", Images: images(" ")},
			} {
				err := tc.finalize(service, context.Background(), input)
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
				}
			}

			if uploader.count() != 0 {
				t.Fatalf("expected zero upload calls, got %d", uploader.count())
			}
			athleteRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			athleteRepo.AssertNotCalled(t, "SetImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			want := string(tc.slot) + ":" + OutcomeInvalid
			if len(observer.outcomes) != 5 || observer.outcomes[0] != want {
				t.Fatalf("unexpected outcomes %v, want %s first", observer.outcomes, want)
			}
		})
	}
}

func TestFinalizeCover_UnknownAthleteIsInvalid(t *testing.T) {
	t.Parallel()

	athleteRepo := athletemock.NewRepository(t)
	uploader := &spyUploader{}
	service := NewFinalizationService(athleteRepo, gallerymock.NewRepository(t), uploader, logging.NewNop())

	athleteRepo.On("GetByID", mock.Anything, "ghost").Return(athlete.Athlete{}, false, nil).Once()

	err := service.FinalizeCover(context.Background(), FinalizeInput{AthleteID: "ghost", Images: images("http://x/c.jpg")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if uploader.count() != 0 {
		t.Fatalf("expected no upload for unknown athlete")
	}
}

func TestFinalizeCover_StoreErrors(t *testing.T) {
	t.Parallel()

	athleteRepo := athletemock.NewRepository(t)
	service := NewFinalizationService(athleteRepo, gallerymock.NewRepository(t), &spyUploader{}, logging.NewNop())

	athleteRepo.On("GetByID", mock.Anything, "ath-1").Return(athlete.Athlete{ID: "ath-1"}, true, nil).Twice()
	athleteRepo.On("SetImage", mock.Anything, "ath-1", athlete.ImageFieldCover, mock.Anything, mock.Anything).Return(false, nil).Once()
	athleteRepo.On("SetImage", mock.Anything, "ath-1", athlete.ImageFieldCover, mock.Anything, mock.Anything).Return(false, errors.New("write concern")).Once()

	for i := 0; i < 2; i++ {
		err := service.FinalizeCover(context.Background(), FinalizeInput{AthleteID: "ath-1", Images: images("http://x/c.jpg")})
		if !errors.Is(err, ErrStore) {
			t.Fatalf("attempt %d: expected ErrStore, got %v", i, err)
		}
	}
}

func TestFinalizeHero_UploadFailureLeavesAthleteUntouched(t *testing.T) {
	t.Parallel()

	uploader := &spyUploader{failFor: map[string]error{"http://x/gone.jpg": fmt.Errorf("%w: status=404", ErrUpstreamFetch)}}
	service, athletes, _ := newMemoryFinalization(t, uploader)

	err := service.FinalizeHero(context.Background(), FinalizeInput{AthleteID: memory.AthleteIDSprinter, Images: images("http://x/gone.jpg")})
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("expected ErrUpstreamFetch, got %v", err)
	}

	a, _, _ := athletes.GetByID(context.Background(), memory.AthleteIDSprinter)
	if a.HeroImage != "" {
		t.Fatalf("hero image must stay unset, got %q", a.HeroImage)
	}
}

func TestFinalizeHero_IdempotentAndIndependentOfCover(t *testing.T) {
	t.Parallel()

	service, athletes, _ := newMemoryFinalization(t, &spyUploader{})
	ctx := context.Background()
	input := FinalizeInput{AthleteID: memory.AthleteIDSwimmer, Images: images("http://x/h.jpg")}

	require.NoError(t, service.FinalizeCover(ctx, FinalizeInput{AthleteID: memory.AthleteIDSwimmer, Images: images("http://x/c.jpg")}))
	require.NoError(t, service.FinalizeHero(ctx, input))
	first, _, _ := athletes.GetByID(ctx, memory.AthleteIDSwimmer)
	require.NoError(t, service.FinalizeHero(ctx, input))
	second, _, _ := athletes.GetByID(ctx, memory.AthleteIDSwimmer)

	require.Equal(t, "https://cdn.test/hero/h.jpg", first.HeroImage)
	require.Equal(t, first.HeroImage, second.HeroImage)
	require.Equal(t, "https://cdn.test/cover/c.jpg", second.CoverImage)
}

func TestFinalizeGallery_DeduplicatesAcrossRequests(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	service, _, galleryRepo := newMemoryFinalization(t, &spyUploader{}, WithUploadConcurrency(2), WithFinalizationObserver(observer))
	ctx := context.Background()

	res, err := service.FinalizeGallery(ctx, FinalizeInput{AthleteID: memory.AthleteIDClimber, Images: images("http://x/1.jpg")})
	require.NoError(t, err)
	require.Equal(t, GalleryResult{Appended: 1}, res)

	res, err = service.FinalizeGallery(ctx, FinalizeInput{AthleteID: memory.AthleteIDClimber, Images: images("http://x/1.jpg", "http://x/2.jpg", "http://x/2.jpg ")})
	require.NoError(t, err)
	require.Equal(t, GalleryResult{Appended: 1, Skipped: 1}, res)

	entries, err := galleryRepo.ListByAthlete(ctx, memory.AthleteIDClimber)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	originals := map[string]gallery.Entry{}
	for _, e := range entries {
		originals[e.OriginalURL] = e
	}
	require.Contains(t, originals, "http://x/1.jpg")
	require.Contains(t, originals, "http://x/2.jpg")
	require.Equal(t, "Veddriq Leonardo", originals["http://x/2.jpg"].AthleteName)
	require.Equal(t, fixedNow, originals["http://x/2.jpg"].SelectedAt)
	require.Equal(t, 2, observer.appended)
	require.Equal(t, 1, observer.skipped)
}

func TestFinalizeGallery_InvalidRequestDoesNotTouchStore(t *testing.T) {
	t.Parallel()

	athleteRepo := athletemock.NewRepository(t)
	galleryRepo := gallerymock.NewRepository(t)
	uploader := &spyUploader{}
	service := NewFinalizationService(athleteRepo, galleryRepo, uploader, logging.NewNop())

	_, err := service.FinalizeGallery(context.Background(), FinalizeInput{AthleteID: "ath-1", Images: images("http://x/1.jpg", "")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if uploader.count() != 0 {
		t.Fatalf("expected zero uploads")
	}
	galleryRepo.AssertNotCalled(t, "AppendIfAbsent", mock.Anything, mock.Anything)
}

func TestFinalizeGallery_PartialFailureKeepsAppendedEntries(t *testing.T) {
	t.Parallel()

	uploader := &spyUploader{failFor: map[string]error{"http://x/bad.jpg": fmt.Errorf("%w: rejected", ErrUploadProvider)}}
	service, _, galleryRepo := newMemoryFinalization(t, uploader, WithUploadConcurrency(1))
	ctx := context.Background()

	res, err := service.FinalizeGallery(ctx, FinalizeInput{AthleteID: memory.AthleteIDSprinter, Images: images("http://x/ok.jpg", "http://x/bad.jpg")})
	if !errors.Is(err, ErrUploadProvider) {
		t.Fatalf("expected ErrUploadProvider, got %v", err)
	}
	if res.Appended != 1 {
		t.Fatalf("expected the successful upload to be appended, got %+v", res)
	}

	entries, _ := galleryRepo.ListByAthlete(ctx, memory.AthleteIDSprinter)
	if len(entries) != 1 || entries[0].OriginalURL != "http://x/ok.jpg" {
		t.Fatalf("unexpected gallery after partial failure: %+v", entries)
	}
	if uploader.count() != 2 {
		t.Fatalf("expected both uploads attempted, got %d", uploader.count())
	}
}

func TestFinalizeGallery_AppendErrorIsStoreError(t *testing.T) {
	t.Parallel()

	athleteRepo := athletemock.NewRepository(t)
	galleryRepo := gallerymock.NewRepository(t)
	service := NewFinalizationService(athleteRepo, galleryRepo, &spyUploader{}, logging.NewNop())

	athleteRepo.On("GetByID", mock.Anything, "ath-1").Return(athlete.Athlete{ID: "ath-1", DisplayName: "A"}, true, nil).Once()
	galleryRepo.
		On("AppendIfAbsent", mock.Anything, mock.MatchedBy(func(e gallery.Entry) bool {
			return e.AthleteID == "ath-1" && e.OriginalURL == "http://x/1.jpg" && e.URL == "https://cdn.test/gallery/1.jpg" && e.AthleteName == "A"
		})).
		Return(false, errors.New("socket closed")).
		Once()

	_, err := service.FinalizeGallery(context.Background(), FinalizeInput{AthleteID: "ath-1", Images: images("http://x/1.jpg")})
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}
