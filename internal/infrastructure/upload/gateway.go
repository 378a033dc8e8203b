package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/riskibarqy/athlete-imagery/external/imagesource"
	"github.com/riskibarqy/athlete-imagery/internal/platform/id"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"github.com/riskibarqy/athlete-imagery/internal/platform/resilience"
	"github.com/riskibarqy/athlete-imagery/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SourceFetcher downloads the original image bytes.
type SourceFetcher interface {
	Fetch(ctx context.Context, rawURL string) (imagesource.Image, error)
}

// StoreInput is one object handed to a hosting provider.
type StoreInput struct {
	Namespace   string
	Name        string
	Extension   string
	ContentType string
	Data        []byte
}

// HostingProvider stores bytes and returns a public URL.
type HostingProvider interface {
	Name() string
	Store(ctx context.Context, input StoreInput) (string, error)
}

// Observer receives per-upload outcomes.
type Observer interface {
	ObserveUpload(provider, outcome string, elapsed time.Duration)
}

const (
	OutcomeUploaded    = "uploaded"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeRejected    = "provider_failed"
	OutcomeUnavailable = "unavailable"
)

type Config struct {
	FolderPrefix string
}

type Gateway struct {
	fetcher  SourceFetcher
	provider HostingProvider
	names    id.ObjectNamer
	logger   *logging.Logger
	observer Observer
	prefix   string
	inflight resilience.Group[usecase.UploadedImage]
}

type Option func(*Gateway)

func WithObserver(observer Observer) Option {
	return func(g *Gateway) {
		if observer != nil {
			g.observer = observer
		}
	}
}

func WithObjectNamer(names id.ObjectNamer) Option {
	return func(g *Gateway) {
		if names != nil {
			g.names = names
		}
	}
}

func NewGateway(cfg Config, fetcher SourceFetcher, provider HostingProvider, logger *logging.Logger, opts ...Option) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	prefix := strings.Trim(strings.TrimSpace(cfg.FolderPrefix), "/")
	if prefix == "" {
		prefix = "athletes"
	}

	g := &Gateway{
		fetcher:  fetcher,
		provider: provider,
		names:    id.NewTimeOrderedNamer(),
		logger:   logger,
		observer: nopObserver{},
		prefix:   prefix,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Upload fetches req.SourceURL and re-hosts it under prefix/slot. Concurrent
// requests for the same athlete, slot and source share one transfer. The
// shared transfer ignores the leader's cancellation and is bounded by the
// fetcher and provider timeouts.
func (g *Gateway) Upload(ctx context.Context, req usecase.UploadRequest) (usecase.UploadedImage, error) {
	key := req.AthleteID + "|" + string(req.Slot) + "|" + req.SourceURL
	out, shared, err := g.inflight.Do(ctx, key, func() (usecase.UploadedImage, error) {
		return g.upload(context.WithoutCancel(ctx), req)
	})
	if shared {
		g.logger.DebugContext(ctx, "upload shared with in-flight request", "source_url", req.SourceURL, "slot", req.Slot)
	}
	return out, err
}

func (g *Gateway) upload(ctx context.Context, req usecase.UploadRequest) (usecase.UploadedImage, error) {
	ctx, span := otel.Tracer("athlete-imagery/upload").Start(ctx, "upload.Gateway.Upload")
	span.SetAttributes(
		attribute.String("upload.provider", g.provider.Name()),
		attribute.String("upload.slot", string(req.Slot)),
		attribute.String("upload.source_url", req.SourceURL),
	)
	defer span.End()

	started := time.Now()
	fail := func(outcome string, err error) (usecase.UploadedImage, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.observer.ObserveUpload(g.provider.Name(), outcome, time.Since(started))
		return usecase.UploadedImage{}, err
	}

	img, err := g.fetcher.Fetch(ctx, req.SourceURL)
	if err != nil {
		return fail(OutcomeFetchFailed, fmt.Errorf("%w: %s: %w", usecase.ErrUpstreamFetch, req.SourceURL, err))
	}

	name, err := g.names.ObjectName(req.AthleteID)
	if err != nil {
		return fail(OutcomeRejected, fmt.Errorf("%w: name object: %w", usecase.ErrUploadProvider, err))
	}

	hosted, err := g.provider.Store(ctx, StoreInput{
		Namespace:   path.Join(g.prefix, string(req.Slot)),
		Name:        name,
		Extension:   img.Extension(),
		ContentType: img.ContentType,
		Data:        img.Data,
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return fail(OutcomeUnavailable, fmt.Errorf("%w: %s: %w", usecase.ErrDependencyUnavailable, g.provider.Name(), err))
		}
		return fail(OutcomeRejected, fmt.Errorf("%w: %s: %w", usecase.ErrUploadProvider, g.provider.Name(), err))
	}

	g.observer.ObserveUpload(g.provider.Name(), OutcomeUploaded, time.Since(started))
	g.logger.DebugContext(ctx, "image re-hosted",
		"provider", g.provider.Name(),
		"slot", req.Slot,
		"source_url", req.SourceURL,
		"url", hosted,
		"bytes", len(img.Data),
	)
	return usecase.UploadedImage{URL: hosted, SourceURL: req.SourceURL}, nil
}

type nopObserver struct{}

func (nopObserver) ObserveUpload(string, string, time.Duration) {}
