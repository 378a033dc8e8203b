package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"github.com/riskibarqy/athlete-imagery/internal/usecase"
)

type Handler struct {
	reviewService       *usecase.ReviewService
	finalizationService *usecase.FinalizationService
	galleryService      *usecase.GalleryService
	logger              *logging.Logger
	validator           *validator.Validate
	exposeErrorDetail   bool
}

func NewHandler(
	reviewService *usecase.ReviewService,
	finalizationService *usecase.FinalizationService,
	galleryService *usecase.GalleryService,
	logger *logging.Logger,
	exposeErrorDetail bool,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		reviewService:       reviewService,
		finalizationService: finalizationService,
		galleryService:      galleryService,
		logger:              logger,
		validator:           validator.New(),
		exposeErrorDetail:   exposeErrorDetail,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	_, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	mapped := mapError(err)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, op+" failed", "error", err)
	} else {
		h.logger.WarnContext(ctx, op+" rejected", "error", err)
	}
	markSpanFailure(ctx, mapped.HTTPStatus, err)
	writeError(w, err, h.exposeErrorDetail)
}
