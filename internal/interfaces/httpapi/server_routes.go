package httpapi

import "net/http"

const imagesPrefix = "/api/images"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}
	if opts.Media != nil {
		mux.Handle("GET /media/", http.StripPrefix("/media/", opts.Media))
	}
	if opts.UIEnabled {
		mux.HandleFunc("GET /{$}", handler.SelectionUI)
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerImageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET "+imagesPrefix+"/athletes/unselected", handler.ListUnselectedAthletes)
	mux.HandleFunc("GET "+imagesPrefix+"/athletes/search", handler.SearchAthletes)
	mux.HandleFunc("GET "+imagesPrefix+"/athletes/unfinalized/counts", handler.CountUnfinalizedAthletes)
	mux.HandleFunc("GET "+imagesPrefix+"/gallery", handler.ListGallery)
	mux.HandleFunc("POST "+imagesPrefix+"/finalize/hero", handler.FinalizeHero)
	mux.HandleFunc("POST "+imagesPrefix+"/finalize/cover", handler.FinalizeCover)
	mux.HandleFunc("POST "+imagesPrefix+"/finalize/gallery", handler.FinalizeGallery)
}
