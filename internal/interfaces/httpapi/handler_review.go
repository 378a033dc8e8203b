package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
	"github.com/riskibarqy/athlete-imagery/internal/usecase"
)

func (h *Handler) ListUnselectedAthletes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListUnselectedAthletes")
	defer span.End()

	query := r.URL.Query()
	page, err := h.reviewService.ListAthletesForReview(ctx, usecase.ReviewPageInput{
		Page:     parsePositiveInt(query.Get("page")),
		PageSize: parsePositiveInt(query.Get("limit")),
	})
	if err != nil {
		h.fail(ctx, w, "list athletes for review", err)
		return
	}

	writeJSON(w, http.StatusOK, reviewPageToDTO(page))
}

func (h *Handler) SearchAthletes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SearchAthletes")
	defer span.End()

	items, err := h.reviewService.SearchAthletesByName(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.fail(ctx, w, "search athletes", err)
		return
	}

	writeJSON(w, http.StatusOK, candidateSetsToDTO(items))
}

func (h *Handler) CountUnfinalizedAthletes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CountUnfinalizedAthletes")
	defer span.End()

	counts, err := h.reviewService.CountUnfinalized(ctx)
	if err != nil {
		h.fail(ctx, w, "count unfinalized athletes", err)
		return
	}

	writeJSON(w, http.StatusOK, countsToDTO(counts))
}

func candidateSetsToDTO(items []candidate.Set) []candidateSetDTO {
	out := make([]candidateSetDTO, 0, len(items))
	for _, item := range items {
		out = append(out, candidateSetToDTO(item))
	}
	return out
}

// parsePositiveInt returns 0 for blank or malformed values so the use case
// applies its defaults.
func parsePositiveInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 0
	}
	return v
}
