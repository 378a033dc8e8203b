package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"go.mongodb.org/mongo-driver/v2/event"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxTracedCommandLength = 512

var (
	storeTracer            = otel.Tracer("athlete-imagery/internal/infrastructure/repository/mongodb")
	commandWhitespaceRegex = regexp.MustCompile(`\s+`)
)

// commandTracer turns driver command events into child spans of the request span.
type commandTracer struct {
	logger *logging.Logger
	spans  sync.Map // request id -> trace.Span
}

func newCommandTracer(logger *logging.Logger) *event.CommandMonitor {
	if logger == nil {
		logger = logging.Default()
	}
	t := &commandTracer{logger: logger}
	return &event.CommandMonitor{
		Started:   t.started,
		Succeeded: t.succeeded,
		Failed:    t.failed,
	}
}

func (t *commandTracer) started(ctx context.Context, evt *event.CommandStartedEvent) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return
	}
	_, span := storeTracer.Start(ctx, "mongodb."+evt.CommandName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mongodb"),
			attribute.String("db.name", evt.DatabaseName),
			attribute.String("db.operation", evt.CommandName),
			attribute.String("db.statement", formatCommandForTrace(evt.Command.String())),
		),
	)
	t.spans.Store(evt.RequestID, span)
}

func (t *commandTracer) succeeded(_ context.Context, evt *event.CommandSucceededEvent) {
	if value, ok := t.spans.LoadAndDelete(evt.RequestID); ok {
		value.(trace.Span).End()
	}
}

func (t *commandTracer) failed(ctx context.Context, evt *event.CommandFailedEvent) {
	t.logger.WarnContext(ctx, "mongo command failed",
		"command", evt.CommandName,
		"database", evt.DatabaseName,
		"duration_ms", evt.Duration.Milliseconds(),
		"failure", evt.Failure,
	)
	if value, ok := t.spans.LoadAndDelete(evt.RequestID); ok {
		span := value.(trace.Span)
		span.SetStatus(codes.Error, fmt.Sprint(evt.Failure))
		span.End()
	}
}

func formatCommandForTrace(command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return command
	}

	normalized := commandWhitespaceRegex.ReplaceAllString(command, " ")
	if len(normalized) <= maxTracedCommandLength {
		return normalized
	}

	return normalized[:maxTracedCommandLength] + "..."
}
