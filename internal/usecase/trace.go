package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/riskibarqy/athlete-imagery/internal/usecase"

// operationSpan is a child span opened only under a valid parent, on the
// parent's tracer provider.
type operationSpan struct {
	span  trace.Span
	owned bool
}

func startOperation(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, operationSpan) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, operationSpan{span: parent}
	}
	ctx, span := parent.TracerProvider().Tracer(tracerName).Start(ctx, "usecase."+name, trace.WithAttributes(attrs...))
	return ctx, operationSpan{span: span, owned: true}
}

func (o operationSpan) annotate(attrs ...attribute.KeyValue) {
	if o.owned {
		o.span.SetAttributes(attrs...)
	}
}

// end records *errp, tagged with its error kind, and closes the span. Use it
// with defer and a named error result.
func (o operationSpan) end(errp *error) {
	if !o.owned {
		return
	}
	if errp != nil && *errp != nil {
		err := *errp
		o.span.SetAttributes(attribute.String("usecase.error_kind", errorKind(err)))
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	o.span.End()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamFetch):
		return "upstream_fetch"
	case errors.Is(err, ErrUploadProvider):
		return "upload_provider"
	case errors.Is(err, ErrDependencyUnavailable):
		return "dependency_unavailable"
	case errors.Is(err, ErrStore):
		return "store"
	default:
		return "unknown"
	}
}
