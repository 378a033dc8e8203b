package memory

import (
	"context"

	"github.com/riskibarqy/athlete-imagery/internal/domain/review"
)

// ReviewRepository left-joins the in-memory candidate sets with athletes and
// gallery entries.
type ReviewRepository struct {
	candidates *CandidateRepository
	athletes   *AthleteRepository
	gallery    *GalleryRepository
}

func NewReviewRepository(candidates *CandidateRepository, athletes *AthleteRepository, gallery *GalleryRepository) *ReviewRepository {
	return &ReviewRepository{
		candidates: candidates,
		athletes:   athletes,
		gallery:    gallery,
	}
}

func (r *ReviewRepository) ListPage(ctx context.Context, skip, limit int) ([]review.Row, error) {
	sets := r.candidates.page(skip, limit)
	rows := make([]review.Row, 0, len(sets))
	for _, set := range sets {
		row := review.Row{Candidate: set}

		a, ok, err := r.athletes.GetByID(ctx, set.AthleteID)
		if err != nil {
			return nil, err
		}
		if ok {
			row.Athlete = &a
		}

		entries, err := r.gallery.ListByAthlete(ctx, set.AthleteID)
		if err != nil {
			return nil, err
		}
		row.Gallery = entries

		rows = append(rows, row)
	}

	return rows, nil
}
