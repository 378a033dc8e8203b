package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/app"
	"github.com/riskibarqy/athlete-imagery/internal/config"
	"github.com/riskibarqy/athlete-imagery/internal/observability"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel, "service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(ctx, cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	srv := a.Server()

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver, "image_host", cfg.ImageHostProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.Error("release app resources", "error", err)
		exitCode = 1
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown telemetry", "error", err)
	}

	logger.Info("http server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
