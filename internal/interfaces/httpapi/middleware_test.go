package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
)

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /readyz ", want: false},
		{path: "/metrics", want: false},
		{path: "/media/athletes/hero/a.jpg", want: false},
		{path: "/api/images/athletes/unselected", want: true},
		{path: "/api/images/finalize/gallery", want: true},
		{path: "/", want: true},
		{path: "/docs", want: true},
	}

	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{name: "configured origin", allowed: []string{"https://imagery-admin.example.com"}, method: http.MethodGet, origin: "https://imagery-admin.example.com", wantOrigin: "https://imagery-admin.example.com", wantStatus: http.StatusOK},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://imagery-admin.example.com", wantOrigin: "*", wantStatus: http.StatusNoContent},
		{name: "unconfigured origin", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: "https://other.example.com", wantOrigin: "", wantStatus: http.StatusOK},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, origin: "", wantOrigin: "", wantStatus: http.StatusOK},
		{name: "configured with trailing slash", allowed: []string{"https://imagery-admin.example.com/"}, method: http.MethodGet, origin: "https://imagery-admin.example.com", wantOrigin: "https://imagery-admin.example.com", wantStatus: http.StatusOK},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/images/athletes/unselected", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("Access-Control-Allow-Origin=%q want=%q", got, tt.wantOrigin)
			}
		})
	}
}

type routeObserver struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (o *routeObserver) ObserveHTTPRequest(route, _ string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, route)
	o.status = append(o.status, status)
}

func TestRequestMetrics_ReportsMatchedPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/images/gallery", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	observer := &routeObserver{}
	handler := RequestMetrics(observer, mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/images/gallery?athlete_id=a1", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if len(observer.routes) != 2 {
		t.Fatalf("expected two observations, got %d", len(observer.routes))
	}
	if observer.routes[0] != "GET /api/images/gallery" || observer.status[0] != http.StatusAccepted {
		t.Fatalf("unexpected first observation route=%q status=%d", observer.routes[0], observer.status[0])
	}
	if observer.routes[1] != "" || observer.status[1] != http.StatusNotFound {
		t.Fatalf("unmatched request should report empty route and 404, got route=%q status=%d", observer.routes[1], observer.status[1])
	}
}

func TestRecoverPanic_WritesServerError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/images/gallery", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == "" {
		t.Fatalf("expected error body")
	}
}

func TestRequestLogging_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		path      string
		status    int
		wantLevel string
	}{
		{path: "/api/images/gallery", status: http.StatusOK, wantLevel: `"level":"INFO"`},
		{path: "/api/images/finalize/hero", status: http.StatusBadRequest, wantLevel: `"level":"WARN"`},
		{path: "/api/images/finalize/gallery", status: http.StatusServiceUnavailable, wantLevel: `"level":"ERROR"`},
		{path: "/healthz", status: http.StatusOK, wantLevel: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.NewJSONWriter(&buf, logging.LevelInfo)
			handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("ok"))
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			out := buf.String()
			if tt.wantLevel == "" {
				if out != "" {
					t.Fatalf("expected operational path to log below info, got %s", out)
				}
				return
			}
			if !strings.Contains(out, tt.wantLevel) || !strings.Contains(out, `"bytes":2`) {
				t.Fatalf("unexpected log entry %s", out)
			}
		})
	}
}
