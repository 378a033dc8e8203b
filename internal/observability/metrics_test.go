package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/athlete-imagery/internal/domain/selection"
	"github.com/riskibarqy/athlete-imagery/internal/platform/resilience"
)

func TestMetrics_Observers(t *testing.T) {
	m := NewMetrics()

	m.ObserveFinalization(selection.SlotHero, "success")
	m.ObserveFinalization(selection.SlotHero, "success")
	m.ObserveGalleryMerge(2, 1)
	m.ObserveUpload("local", "uploaded", 30*time.Millisecond)
	m.ObserveHTTPRequest("GET /api/images/gallery", http.MethodGet, 200, time.Millisecond)

	if got := testutil.ToFloat64(m.finalizations.WithLabelValues("hero", "success")); got != 2 {
		t.Fatalf("expected 2 hero finalizations, got %v", got)
	}
	if got := testutil.ToFloat64(m.galleryImages.WithLabelValues("skipped")); got != 1 {
		t.Fatalf("expected 1 skipped gallery image, got %v", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues("local", "uploaded")); got != 1 {
		t.Fatalf("expected 1 upload, got %v", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /api/images/gallery", "GET", "200")); got != 1 {
		t.Fatalf("expected 1 http request, got %v", got)
	}
}

func TestMetrics_TrackCircuit(t *testing.T) {
	m := NewMetrics()
	breaker := resilience.NewBreaker("cloudinary", resilience.Policy{
		FailureThreshold: 1,
		OpenFor:          time.Minute,
		HalfOpenProbes:   1,
	})
	m.TrackCircuit("cloudinary", breaker)

	gauge := m.circuitState.WithLabelValues("cloudinary")
	if got := testutil.ToFloat64(gauge); got != 0 {
		t.Fatalf("expected closed gauge, got %v", got)
	}
	_ = breaker.Do(nil, func() error { return errors.New("503") })
	if got := testutil.ToFloat64(gauge); got != 2 {
		t.Fatalf("expected open gauge, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveUpload("cloudinary", "provider_failed", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "athlete_imagery_upload_images_total") {
		t.Fatalf("expected upload counter in exposition")
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFinalization(selection.SlotCover, "failure")
	m.ObserveGalleryMerge(1, 1)
	m.ObserveUpload("local", "uploaded", time.Second)
	m.ObserveHTTPRequest("", http.MethodGet, 500, time.Second)
	m.TrackCircuit("cloudinary", nil)
}
