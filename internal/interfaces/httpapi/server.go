package httpapi

import (
	"net/http"

	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
)

// RouterOptions toggles the optional system surfaces.
type RouterOptions struct {
	ServiceName        string
	SwaggerEnabled     bool
	UIEnabled          bool
	CORSAllowedOrigins []string
	// Metrics serves /metrics and observes every request when set.
	Metrics interface {
		RequestObserver
		Handler() http.Handler
	}
	// Media serves locally hosted images under /media/ when set.
	Media http.Handler
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "athlete-imagery-api"
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerImageRoutes(mux, handler)

	var observer RequestObserver
	if opts.Metrics != nil {
		observer = opts.Metrics
	}

	return RequestTracing(opts.ServiceName, RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, RequestMetrics(observer, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
