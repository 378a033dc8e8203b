package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/athlete-imagery/internal/config"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// startTracing installs the global OpenTelemetry providers backed by Uptrace.
// It returns nil when tracing is off.
func startTracing(cfg config.Config, logger *logging.Logger) func(context.Context) error {
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled, "dsn_set", strings.TrimSpace(cfg.UptraceDSN) != "")
		return nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.String("store.driver", cfg.StoreDriver),
			attribute.String("image.host", cfg.ImageHostProvider),
		),
	)
	logger.Info("uptrace enabled", "service_version", cfg.ServiceVersion)

	return uptrace.Shutdown
}
