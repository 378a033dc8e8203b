package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/athlete-imagery/internal/domain/selection"
	"github.com/riskibarqy/athlete-imagery/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

const maxFinalizeBodyBytes = 1 << 20

func (h *Handler) FinalizeHero(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "FinalizeHero")
	defer span.End()

	input, err := h.decodeFinalizeRequest(ctx, r)
	span.SetAttributes(attribute.String("athlete_id", input.AthleteID), attribute.Int("images", len(input.Images)))
	if err != nil {
		h.fail(ctx, w, "finalize hero", err)
		return
	}
	if err := h.finalizationService.FinalizeHero(ctx, input); err != nil {
		h.fail(ctx, w, "finalize hero", err)
		return
	}

	writeMessage(w, http.StatusOK, "hero image finalized")
}

func (h *Handler) FinalizeCover(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "FinalizeCover")
	defer span.End()

	input, err := h.decodeFinalizeRequest(ctx, r)
	span.SetAttributes(attribute.String("athlete_id", input.AthleteID), attribute.Int("images", len(input.Images)))
	if err != nil {
		h.fail(ctx, w, "finalize cover", err)
		return
	}
	if err := h.finalizationService.FinalizeCover(ctx, input); err != nil {
		h.fail(ctx, w, "finalize cover", err)
		return
	}

	writeMessage(w, http.StatusOK, "cover image finalized")
}

func (h *Handler) FinalizeGallery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "FinalizeGallery")
	defer span.End()

	input, err := h.decodeFinalizeRequest(ctx, r)
	span.SetAttributes(attribute.String("athlete_id", input.AthleteID), attribute.Int("images", len(input.Images)))
	if err != nil {
		h.fail(ctx, w, "finalize gallery", err)
		return
	}
	if _, err := h.finalizationService.FinalizeGallery(ctx, input); err != nil {
		h.fail(ctx, w, "finalize gallery", err)
		return
	}

	writeMessage(w, http.StatusOK, "gallery image(s) finalized")
}

func (h *Handler) decodeFinalizeRequest(ctx context.Context, r *http.Request) (usecase.FinalizeInput, error) {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxFinalizeBodyBytes))
	decoder.DisallowUnknownFields()

	var req finalizeRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return usecase.FinalizeInput{}, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return usecase.FinalizeInput{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.FinalizeInput{}, err
	}

	images := make([]selection.Image, 0, len(req.SelectedImages))
	for _, img := range req.SelectedImages {
		images = append(images, selection.Image{URL: img.URL, Source: img.Source, Text: img.Text})
	}

	return usecase.FinalizeInput{
		AthleteID:   req.AthleteID,
		AthleteName: req.AthleteName,
		Images:      images,
	}, nil
}
