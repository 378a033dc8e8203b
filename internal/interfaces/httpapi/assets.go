package httpapi

import (
	"embed"
	"net/http"
)

//go:embed openapi.yaml ui/index.html ui/docs.html
var assets embed.FS

const (
	assetOpenAPI     = "openapi.yaml"
	assetSwaggerUI   = "ui/docs.html"
	assetSelectionUI = "ui/index.html"
)

func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	h.serveAsset(w, r, "OpenAPI", assetOpenAPI, "application/yaml; charset=utf-8")
}

func (h *Handler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	h.serveAsset(w, r, "SwaggerUI", assetSwaggerUI, "text/html; charset=utf-8")
}

// SelectionUI serves the operator page that drives the image API.
func (h *Handler) SelectionUI(w http.ResponseWriter, r *http.Request) {
	h.serveAsset(w, r, "SelectionUI", assetSelectionUI, "text/html; charset=utf-8")
}

func (h *Handler) serveAsset(w http.ResponseWriter, r *http.Request, handler, name, contentType string) {
	ctx, span := startHandlerSpan(r, handler)
	defer span.End()

	body, err := assets.ReadFile(name)
	if err != nil {
		h.fail(ctx, w, "serve "+name, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(body)
	h.logger.DebugContext(ctx, "asset served", "asset", name, "bytes", len(body))
}
