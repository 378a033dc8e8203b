package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RequestObserver records per-route request metrics.
type RequestObserver interface {
	ObserveHTTPRequest(route, method string, status int, elapsed time.Duration)
}

// responseRecorder captures the status and body size written by a handler.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func record(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w}
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *responseRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// isOperationalPath reports probe, metrics and media paths. They are not
// traced and are logged at debug.
func isOperationalPath(path string) bool {
	normalized := strings.ToLower(strings.TrimSpace(path))
	switch normalized {
	case "/healthz", "/health", "/livez", "/readyz", "/metrics":
		return true
	default:
		return strings.HasPrefix(normalized, "/media/")
	}
}

func shouldTraceRequest(path string) bool {
	return !isOperationalPath(path)
}

// RequestLogging logs one entry per request, at a level derived from the
// response status.
func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := record(w)
		next.ServeHTTP(rec, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status(),
			"bytes", rec.bytes,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
		}
		ctx := r.Context()
		status := rec.Status()
		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(ctx, "http request", args...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(ctx, "http request", args...)
		case isOperationalPath(r.URL.Path):
			logger.DebugContext(ctx, "http request", args...)
		default:
			logger.InfoContext(ctx, "http request", args...)
		}
	})
}

// RequestMetrics must wrap the mux directly: the route pattern is read back
// from the same *http.Request the mux matched.
func RequestMetrics(observer RequestObserver, next http.Handler) http.Handler {
	if observer == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := record(w)
		next.ServeHTTP(rec, r)
		observer.ObserveHTTPRequest(r.Pattern, r.Method, rec.Status(), time.Since(started))
	})
}

func RequestTracing(serviceName string, next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, serviceName+"-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}
