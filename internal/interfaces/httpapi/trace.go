package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("github.com/riskibarqy/athlete-imagery/internal/interfaces/httpapi")

// startHandlerSpan opens a child of the request span. Requests skipped by
// RequestTracing carry no parent and get the parent's no-op span back.
func startHandlerSpan(r *http.Request, handler string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}

	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	return apiTracer.Start(ctx, handlerSpanPrefix+handler, trace.WithAttributes(attrs...))
}

// markSpanFailure tags the active span with the response status and records
// err when status is a server error.
func markSpanFailure(ctx context.Context, status int, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status < http.StatusInternalServerError || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
