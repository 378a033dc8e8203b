package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/athlete-imagery/internal/domain/selection"
	"github.com/riskibarqy/athlete-imagery/internal/platform/resilience"
)

const metricsNamespace = "athlete_imagery"

// Metrics owns a private Prometheus registry. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	finalizations       *prometheus.CounterVec
	galleryImages       *prometheus.CounterVec
	uploads             *prometheus.CounterVec
	uploadDuration      *prometheus.HistogramVec
	circuitState        *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		finalizations: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "finalization",
			Name:      "requests_total",
			Help:      "Finalization requests by slot and outcome.",
		}, []string{"slot", "outcome"}),
		galleryImages: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gallery",
			Name:      "images_total",
			Help:      "Gallery images processed, split into appended and skipped duplicates.",
		}, []string{"result"}),
		uploads: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "upload",
			Name:      "images_total",
			Help:      "Image re-host attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		uploadDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "upload",
			Name:      "duration_seconds",
			Help:      "Fetch plus re-host latency by provider.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"provider"}),
		circuitState: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "circuit",
			Name:      "state",
			Help:      "Circuit breaker state per dependency: 0 closed, 1 half open, 2 open.",
		}, []string{"dependency"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFinalization(slot selection.Slot, outcome string) {
	if m == nil {
		return
	}
	m.finalizations.WithLabelValues(string(slot), outcome).Inc()
}

func (m *Metrics) ObserveGalleryMerge(appended, skipped int) {
	if m == nil {
		return
	}
	m.galleryImages.WithLabelValues("appended").Add(float64(appended))
	m.galleryImages.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) ObserveUpload(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(provider, outcome).Inc()
	m.uploadDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// TrackCircuit exports breaker transitions for dependency.
func (m *Metrics) TrackCircuit(dependency string, breaker *resilience.Breaker) {
	if m == nil || breaker == nil {
		return
	}
	gauge := m.circuitState.WithLabelValues(dependency)
	gauge.Set(circuitStateValue(breaker.State()))
	breaker.OnStateChange(func(_, to resilience.State) {
		gauge.Set(circuitStateValue(to))
	})
}

func circuitStateValue(state resilience.State) float64 {
	switch state {
	case resilience.StateHalfOpen:
		return 1
	case resilience.StateOpen:
		return 2
	default:
		return 0
	}
}
