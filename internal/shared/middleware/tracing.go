package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "wallet/http"

// unmatchedRoute labels requests no mux pattern matched.
const unmatchedRoute = "unmatched"

// Tracing starts a server span per request and records request metrics. It
// must wrap a ServeMux directly: the span and the metrics are labelled by the
// pattern the mux matched, never by the raw path.
func Tracing(next http.Handler) http.Handler {
	return tracing(next, otel.GetTracerProvider(), otel.GetMeterProvider())
}

func tracing(next http.Handler, tp trace.TracerProvider, mp metric.MeterProvider) http.Handler {
	tracer := tp.Tracer(instrumentationName)
	meter := mp.Meter(instrumentationName)
	duration, _ := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	total, _ := meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total HTTP requests"),
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.request_id", RequestID(r.Context())),
			),
		)
		defer span.End()

		start := time.Now()
		req := r.WithContext(ctx)
		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, req)

		status := wrapped.status
		if status == 0 {
			status = http.StatusOK
		}
		route := req.Pattern
		if route == "" {
			route = unmatchedRoute
		}

		span.SetName(r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		duration.Record(ctx, time.Since(start).Seconds(), attrs)
		total.Add(ctx, 1, attrs)
	})
}
