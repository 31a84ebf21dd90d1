package tracing

import (
	"context"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// RunIDKey is the span attribute carrying the run identifier.
const RunIDKey = attribute.Key("postfire.run_id")

// StartRequestSpan starts the client span for the single request of a run.
func StartRequestSpan(ctx context.Context, tracer trace.Tracer, method, target, runID string) (context.Context, trace.Span) {
	spanName := "HTTP " + method
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(method),
	}
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		attrs = append(attrs, semconv.ServerAddress(u.Hostname()))
		if u.Path != "" {
			attrs = append(attrs, semconv.URLPath(u.Path))
		}
	}
	if runID != "" {
		attrs = append(attrs, RunIDKey.String(runID))
	}
	return tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// StatusAttribute returns the response status code attribute.
func StatusAttribute(code int) attribute.KeyValue {
	return semconv.HTTPResponseStatusCode(code)
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
