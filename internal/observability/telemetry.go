package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/athlete-imagery/internal/config"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
)

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// Telemetry owns the tracing exporter and the profilers started for the process.
type Telemetry struct {
	logger    *logging.Logger
	shutdowns []shutdownFunc
	pprofAddr string
}

// Start brings up every telemetry backend enabled in cfg. On error the
// backends already started are stopped before returning.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	if fn := startTracing(cfg, logger); fn != nil {
		t.register("uptrace", fn)
	}

	stopProfiler, err := startContinuousProfiling(cfg, logger)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	if stopProfiler != nil {
		t.register("pyroscope", func(context.Context) error { return stopProfiler() })
	}

	srv, addr, err := startPprofServer(cfg, logger)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, fmt.Errorf("start pprof: %w", err)
	}
	if srv != nil {
		t.pprofAddr = addr
		t.register("pprof", srv.Shutdown)
	}

	return t, nil
}

// PprofAddr is the bound pprof listener address, empty when pprof is off.
func (t *Telemetry) PprofAddr() string {
	return t.pprofAddr
}

// Shutdown stops backends in reverse start order and joins their errors.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		s := t.shutdowns[i]
		if err := s.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", s.name, err))
			continue
		}
		t.logger.Info("telemetry backend stopped", "backend", s.name)
	}
	t.shutdowns = nil
	return errors.Join(errs...)
}

func (t *Telemetry) register(name string, fn func(context.Context) error) {
	t.shutdowns = append(t.shutdowns, shutdownFunc{name: name, fn: fn})
}
