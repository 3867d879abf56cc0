package metrics

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	httpRequestsTotal    metric.Int64Counter
	httpRequestDuration  metric.Float64Histogram
	httpRequestsInFlight metric.Int64UpDownCounter

	downstreamCallsTotal   metric.Int64Counter
	downstreamCallDuration metric.Float64Histogram
)

// Init creates the portal's instruments on the global meter provider. Recording
// functions are no-ops until Init succeeds.
func Init(serviceName string) error {
	meter := otel.Meter(serviceName)

	var err error

	if httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	if httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	if httpRequestsInFlight, err = meter.Int64UpDownCounter(
		"http_requests_in_flight",
		metric.WithDescription("Number of HTTP requests currently in flight"),
		metric.WithUnit("{request}"),
	); err != nil {
		return fmt.Errorf("failed to create http_requests_in_flight gauge: %w", err)
	}

	if downstreamCallsTotal, err = meter.Int64Counter(
		"downstream_calls_total",
		metric.WithDescription("Total number of calls to the auth and prediction services"),
		metric.WithUnit("{call}"),
	); err != nil {
		return fmt.Errorf("failed to create downstream_calls_total counter: %w", err)
	}

	if downstreamCallDuration, err = meter.Float64Histogram(
		"downstream_call_duration_seconds",
		metric.WithDescription("Downstream service call duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return fmt.Errorf("failed to create downstream_call_duration_seconds histogram: %w", err)
	}

	if _, err = meter.Int64ObservableGauge(
		"go_goroutines",
		metric.WithDescription("Number of goroutines currently running"),
		metric.WithUnit("{goroutine}"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	); err != nil {
		return fmt.Errorf("failed to create go_goroutines gauge: %w", err)
	}

	return nil
}

// RecordHTTPRequest records one served page or redirect.
func RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	)

	if httpRequestsTotal != nil {
		httpRequestsTotal.Add(ctx, 1, attrs)
	}
	if httpRequestDuration != nil {
		httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

func IncrementInFlightRequests(ctx context.Context, method, route string) {
	addInFlight(ctx, method, route, 1)
}

func DecrementInFlightRequests(ctx context.Context, method, route string) {
	addInFlight(ctx, method, route, -1)
}

func addInFlight(ctx context.Context, method, route string, delta int64) {
	if httpRequestsInFlight == nil {
		return
	}
	httpRequestsInFlight.Add(ctx, delta, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	))
}

// RecordDownstreamCall records a call to the auth or prediction service. statusCode
// is 0 when the call never got a response.
func RecordDownstreamCall(ctx context.Context, service, operation string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service.name", service),
		attribute.String("operation", operation),
		attribute.Int("http.status_code", statusCode),
		attribute.Bool("success", statusCode >= 200 && statusCode < 300),
	)

	if downstreamCallsTotal != nil {
		downstreamCallsTotal.Add(ctx, 1, attrs)
	}
	if downstreamCallDuration != nil {
		downstreamCallDuration.Record(ctx, duration.Seconds(), attrs)
	}
}
