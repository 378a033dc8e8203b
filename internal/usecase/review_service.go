package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
	"github.com/riskibarqy/athlete-imagery/internal/domain/review"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultReviewPage     = 1
	DefaultReviewPageSize = 5
	SearchResultLimit     = 20

	countScanBatchSize = 200
)

type ReviewPageInput struct {
	Page     int
	PageSize int
}

// EnrichedAthlete is a candidate set with its derived finalization state.
type EnrichedAthlete struct {
	Candidate    candidate.Set
	AthleteFound bool
	Flags        review.Flags
}

type ReviewPage struct {
	Items      []EnrichedAthlete
	TotalCount int64
	Page       int
	PageSize   int
}

// TotalPages rounds up; zero items yields zero pages.
func (p ReviewPage) TotalPages() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	if p.TotalCount <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	pages := p.TotalCount / size
	if p.TotalCount%size != 0 {
		pages++
	}
	return pages
}

type ReviewService struct {
	reviewRepo    review.Repository
	candidateRepo candidate.Repository
	logger        *logging.Logger
}

func NewReviewService(reviewRepo review.Repository, candidateRepo candidate.Repository, logger *logging.Logger) *ReviewService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReviewService{
		reviewRepo:    reviewRepo,
		candidateRepo: candidateRepo,
		logger:        logger,
	}
}

// ListAthletesForReview returns one page of candidate sets in natural order,
// each joined with its athlete and gallery and annotated with derived flags.
func (s *ReviewService) ListAthletesForReview(ctx context.Context, input ReviewPageInput) (_ ReviewPage, err error) {
	input = normalizeReviewPage(input)
	ctx, span := startOperation(ctx, "ReviewService.ListAthletesForReview",
		attribute.Int("page", input.Page),
		attribute.Int("page_size", input.PageSize),
	)
	defer span.end(&err)

	var rows []review.Row
	if skip, ok := pageOffset(input); ok {
		rows, err = s.reviewRepo.ListPage(ctx, skip, input.PageSize)
		if err != nil {
			return ReviewPage{}, fmt.Errorf("%w: list review page: %w", ErrStore, err)
		}
	}

	total, err := s.candidateRepo.Count(ctx)
	if err != nil {
		return ReviewPage{}, fmt.Errorf("%w: count candidate sets: %w", ErrStore, err)
	}

	items := make([]EnrichedAthlete, 0, len(rows))
	for _, row := range rows {
		items = append(items, enrich(row))
	}

	s.logger.DebugContext(ctx, "review page loaded",
		"page", input.Page,
		"page_size", input.PageSize,
		"items", len(items),
		"total", total,
	)

	return ReviewPage{
		Items:      items,
		TotalCount: total,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}, nil
}

// pageOffset reports false when (page-1)*pageSize does not fit in an int;
// such a page lies past any store and is empty.
func pageOffset(input ReviewPageInput) (int, bool) {
	if input.Page-1 > math.MaxInt/input.PageSize {
		return 0, false
	}
	return (input.Page - 1) * input.PageSize, true
}

// SearchAthletesByName does a case-insensitive substring match on athlete_name.
// A blank query returns an empty result without touching the store.
func (s *ReviewService) SearchAthletesByName(ctx context.Context, query string) (_ []candidate.Set, err error) {
	ctx, span := startOperation(ctx, "ReviewService.SearchAthletesByName")
	defer span.end(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return []candidate.Set{}, nil
	}

	items, err := s.candidateRepo.SearchByName(ctx, query, SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: search candidate sets: %w", ErrStore, err)
	}
	if len(items) > SearchResultLimit {
		items = items[:SearchResultLimit]
	}
	span.annotate(attribute.Int("results", len(items)))

	return items, nil
}

// CountUnfinalized walks every candidate set through the same join and
// derivation as the review list.
func (s *ReviewService) CountUnfinalized(ctx context.Context) (_ review.Counts, err error) {
	ctx, span := startOperation(ctx, "ReviewService.CountUnfinalized")
	defer span.end(&err)

	var counts review.Counts
	for skip := 0; ; skip += countScanBatchSize {
		rows, err := s.reviewRepo.ListPage(ctx, skip, countScanBatchSize)
		if err != nil {
			return review.Counts{}, fmt.Errorf("%w: scan review rows: %w", ErrStore, err)
		}
		for _, row := range rows {
			counts.Add(review.Derive(row.Athlete, row.Gallery))
		}
		if len(rows) < countScanBatchSize {
			break
		}
	}

	return counts, nil
}

func enrich(row review.Row) EnrichedAthlete {
	return EnrichedAthlete{
		Candidate:    row.Candidate,
		AthleteFound: row.Athlete != nil,
		Flags:        review.Derive(row.Athlete, row.Gallery),
	}
}

func normalizeReviewPage(input ReviewPageInput) ReviewPageInput {
	if input.Page < 1 {
		input.Page = DefaultReviewPage
	}
	if input.PageSize < 1 {
		input.PageSize = DefaultReviewPageSize
	}
	return input
}
