package httpapi

import "net/http"

func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListGallery")
	defer span.End()

	entries, err := h.galleryService.ListGallery(ctx, r.URL.Query().Get("athlete_id"))
	if err != nil {
		h.fail(ctx, w, "list gallery", err)
		return
	}

	writeJSON(w, http.StatusOK, galleryToDTO(entries))
}
