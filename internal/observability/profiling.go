package observability

import (
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/athlete-imagery/internal/config"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
)

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileBlockDuration,
}

func startContinuousProfiling(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled")
		return nil, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.PyroscopeAppName,
		ServerAddress:   cfg.PyroscopeServerAddress,
		AuthToken:       cfg.PyroscopeAuthToken,
		UploadRate:      cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":        cfg.AppEnv,
			"service":    cfg.ServiceName,
			"image_host": cfg.ImageHostProvider,
		},
		ProfileTypes: profileTypes,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)

	return profiler.Stop, nil
}

// startPprofServer binds the listener up front so a taken port fails Start.
func startPprofServer(cfg config.Config, logger *logging.Logger) (*http.Server, string, error) {
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled")
		return nil, "", nil
	}

	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, "", err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	addr := ln.Addr().String()
	go func() {
		logger.Info("pprof server starting", "addr", addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()

	return srv, addr, nil
}
