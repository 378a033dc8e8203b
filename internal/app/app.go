package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/athlete-imagery/external/cloudinary"
	"github.com/riskibarqy/athlete-imagery/external/imagesource"
	"github.com/riskibarqy/athlete-imagery/internal/config"
	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
	"github.com/riskibarqy/athlete-imagery/internal/domain/review"
	"github.com/riskibarqy/athlete-imagery/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/athlete-imagery/internal/infrastructure/repository/mongodb"
	"github.com/riskibarqy/athlete-imagery/internal/infrastructure/storage/local"
	"github.com/riskibarqy/athlete-imagery/internal/infrastructure/upload"
	"github.com/riskibarqy/athlete-imagery/internal/interfaces/httpapi"
	"github.com/riskibarqy/athlete-imagery/internal/observability"
	idgen "github.com/riskibarqy/athlete-imagery/internal/platform/id"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"github.com/riskibarqy/athlete-imagery/internal/platform/resilience"
	"github.com/riskibarqy/athlete-imagery/internal/usecase"
)

// App owns the HTTP server and every resource it needs to release on shutdown.
type App struct {
	server  *http.Server
	closers []func(context.Context) error
}

type stores struct {
	athletes   athlete.Repository
	candidates candidate.Repository
	gallery    gallery.Repository
	review     review.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	st, err := a.openStores(ctx, cfg, logger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	provider, media, err := newHostingProvider(cfg, logger, metrics)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	fetcher := imagesource.NewFetcher(imagesource.Config{
		Timeout:   cfg.SourceFetchTimeout,
		MaxBytes:  cfg.SourceFetchMaxBytes,
		UserAgent: cfg.ServiceName + "/" + cfg.ServiceVersion,
	})
	gatewayOpts := []upload.Option{upload.WithObjectNamer(idgen.NewTimeOrderedNamer())}
	if metrics != nil {
		gatewayOpts = append(gatewayOpts, upload.WithObserver(metrics))
	}
	gateway := upload.NewGateway(upload.Config{FolderPrefix: cfg.UploadFolderPrefix}, fetcher, provider, logger.Named("upload"), gatewayOpts...)

	finalizationOpts := []usecase.FinalizationOption{usecase.WithUploadConcurrency(cfg.UploadConcurrency)}
	if metrics != nil {
		finalizationOpts = append(finalizationOpts, usecase.WithFinalizationObserver(metrics))
	}

	reviewSvc := usecase.NewReviewService(st.review, st.candidates, logger.Named("review"))
	finalizationSvc := usecase.NewFinalizationService(st.athletes, st.gallery, gateway, logger.Named("finalization"), finalizationOpts...)
	gallerySvc := usecase.NewGalleryService(st.gallery)

	handler := httpapi.NewHandler(reviewSvc, finalizationSvc, gallerySvc, logger.Named("httpapi"), cfg.ExposeErrorDetail())
	routerOpts := httpapi.RouterOptions{
		ServiceName:        cfg.ServiceName,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		UIEnabled:          cfg.UIEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Media:              media,
	}
	if metrics != nil {
		routerOpts.Metrics = metrics
	}

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, routerOpts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

func (a *App) Server() *http.Server {
	return a.server
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		athletes := memory.NewAthleteRepository(memory.SeedAthletes())
		candidates := memory.NewCandidateRepository(memory.SeedCandidates())
		galleryRepo := memory.NewGalleryRepository(nil)
		logger.Warn("using in-memory store with seed data", "athletes", len(memory.SeedAthletes()))
		return stores{
			athletes:   athletes,
			candidates: candidates,
			gallery:    galleryRepo,
			review:     memory.NewReviewRepository(candidates, athletes, galleryRepo),
		}, nil
	case config.StoreDriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.ConnectOptions{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.MongoConnectTimeout,
			AppName:        cfg.ServiceName,
			Logger:         logger.Named("mongo"),
		})
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, func(ctx context.Context) error {
			if err := client.Disconnect(ctx); err != nil {
				return fmt.Errorf("disconnect mongo: %w", err)
			}
			return nil
		})
		logger.Info("connected to mongo", "database", cfg.MongoDatabase)
		return stores{
			athletes:   mongodb.NewAthleteRepository(db),
			candidates: mongodb.NewCandidateRepository(db),
			gallery:    mongodb.NewGalleryRepository(db),
			review:     mongodb.NewReviewRepository(db),
		}, nil
	default:
		return stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// newHostingProvider returns the configured provider and, for local hosting,
// the handler that serves the stored files.
func newHostingProvider(cfg config.Config, logger *logging.Logger, metrics *observability.Metrics) (upload.HostingProvider, http.Handler, error) {
	switch cfg.ImageHostProvider {
	case config.ImageHostLocal:
		storage, err := local.NewStorage(cfg.LocalMediaDir, cfg.LocalMediaBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("init local media storage: %w", err)
		}
		return upload.NewLocalProvider(storage), http.FileServer(http.Dir(storage.BaseDir())), nil
	case config.ImageHostCloudinary:
		var breaker *resilience.Breaker
		if cfg.CloudinaryCircuitEnabled {
			breaker = resilience.NewBreaker("cloudinary", resilience.Policy{
				FailureThreshold: cfg.CloudinaryCircuitFailures,
				OpenFor:          cfg.CloudinaryCircuitOpenTime,
				HalfOpenProbes:   cfg.CloudinaryCircuitHalfOpenRq,
			})
			metrics.TrackCircuit(breaker.Name(), breaker)
		}
		client := cloudinary.NewClient(cloudinary.Config{
			BaseURL:   cfg.CloudinaryBaseURL,
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Timeout:   cfg.CloudinaryTimeout,
			Breaker:   breaker,
		}, logger.Named("cloudinary"))
		return upload.NewCloudinaryProvider(client), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported image host provider %q", cfg.ImageHostProvider)
	}
}
