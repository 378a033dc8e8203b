package httpapi

import (
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
	"github.com/riskibarqy/athlete-imagery/internal/domain/review"
	"github.com/riskibarqy/athlete-imagery/internal/usecase"
)

type candidateImageDTO struct {
	URL    string `json:"url"`
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"`
}

type candidateSetDTO struct {
	ID               string              `json:"_id"`
	AthleteID        string              `json:"athlete_id"`
	AthleteName      string              `json:"athlete_name"`
	Discipline       string              `json:"discipline,omitempty"`
	ImageURLs        []candidateImageDTO `json:"image_urls"`
	TotalImagesFound int                 `json:"total_images_found"`
}

type galleryEntryDTO struct {
	ID          string    `json:"_id"`
	AthleteID   string    `json:"athlete_id"`
	AthleteName string    `json:"athlete_name,omitempty"`
	URL         string    `json:"url"`
	OriginalURL string    `json:"original_url"`
	Source      string    `json:"source,omitempty"`
	Text        string    `json:"text,omitempty"`
	SelectedAt  time.Time `json:"selected_at"`
}

type enrichedAthleteDTO struct {
	candidateSetDTO
	HeroImageURL        *string           `json:"heroImageUrl"`
	CoverImageURL       *string           `json:"coverImageUrl"`
	HeroImageFinalized  bool              `json:"heroImageFinalized"`
	CoverImageFinalized bool              `json:"coverImageFinalized"`
	GalleryFinalized    bool              `json:"galleryFinalized"`
	GalleryFinalizedAt  *time.Time        `json:"galleryFinalizedAt"`
	GalleryImages       []galleryEntryDTO `json:"galleryImages"`
}

type reviewPageDTO struct {
	Athletes   []enrichedAthleteDTO `json:"athletes"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int64                `json:"totalPages"`
}

type countsDTO struct {
	Total          int64 `json:"total"`
	HeroMissing    int64 `json:"heroMissing"`
	CoverMissing   int64 `json:"coverMissing"`
	GalleryMissing int64 `json:"galleryMissing"`
	FullyFinalized int64 `json:"fullyFinalized"`
}

type selectedImageRequest struct {
	URL    string `json:"url" validate:"required"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

type finalizeRequest struct {
	AthleteID      string                 `json:"athleteId" validate:"required"`
	AthleteName    string                 `json:"athlete_name"`
	SelectedImages []selectedImageRequest `json:"selected_images" validate:"required,min=1,dive"`
}

func candidateSetToDTO(v candidate.Set) candidateSetDTO {
	images := make([]candidateImageDTO, 0, len(v.Images))
	for _, img := range v.Images {
		images = append(images, candidateImageDTO{URL: img.URL, Text: img.Text, Source: img.Source})
	}

	return candidateSetDTO{
		ID:               v.ID,
		AthleteID:        v.AthleteID,
		AthleteName:      v.AthleteName,
		Discipline:       v.Discipline,
		ImageURLs:        images,
		TotalImagesFound: v.TotalImagesFound,
	}
}

func galleryEntryToDTO(v gallery.Entry) galleryEntryDTO {
	return galleryEntryDTO{
		ID:          v.ID,
		AthleteID:   v.AthleteID,
		AthleteName: v.AthleteName,
		URL:         v.URL,
		OriginalURL: v.OriginalURL,
		Source:      v.Source,
		Text:        v.Text,
		SelectedAt:  v.SelectedAt,
	}
}

func galleryToDTO(entries []gallery.Entry) []galleryEntryDTO {
	out := make([]galleryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, galleryEntryToDTO(entry))
	}
	return out
}

func enrichedAthleteToDTO(v usecase.EnrichedAthlete) enrichedAthleteDTO {
	return enrichedAthleteDTO{
		candidateSetDTO:     candidateSetToDTO(v.Candidate),
		HeroImageURL:        v.Flags.HeroImage,
		CoverImageURL:       v.Flags.CoverImage,
		HeroImageFinalized:  v.Flags.HeroImageFinalized,
		CoverImageFinalized: v.Flags.CoverImageFinalized,
		GalleryFinalized:    v.Flags.GalleryFinalized,
		GalleryFinalizedAt:  v.Flags.GalleryFinalizedAt,
		GalleryImages:       galleryToDTO(v.Flags.GalleryImages),
	}
}

func reviewPageToDTO(v usecase.ReviewPage) reviewPageDTO {
	athletes := make([]enrichedAthleteDTO, 0, len(v.Items))
	for _, item := range v.Items {
		athletes = append(athletes, enrichedAthleteToDTO(item))
	}

	return reviewPageDTO{
		Athletes:   athletes,
		Total:      v.TotalCount,
		Page:       v.Page,
		Limit:      v.PageSize,
		TotalPages: v.TotalPages(),
	}
}

func countsToDTO(v review.Counts) countsDTO {
	return countsDTO{
		Total:          v.Total,
		HeroMissing:    v.HeroMissing,
		CoverMissing:   v.CoverMissing,
		GalleryMissing: v.GalleryMissing,
		FullyFinalized: v.FullyFinalized,
	}
}
