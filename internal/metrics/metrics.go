// internal/metrics/metrics.go
//
// Request metrics for the diagnostics listener.
//   - OpenTelemetry metric API with a pull-based Prometheus exporter.
//   - http.server.requests: counter by method, route pattern and status.
//   - http.server.duration_ms: latency histogram with the same labels.
//   - The exporter itself is the /metrics handler.

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

// Metrics owns the exporter and the HTTP instruments.
type Metrics struct {
	exporter *prometheus.Exporter
	requests metric.Int64Counter
	duration metric.Float64ValueRecorder
}

// New builds an exporter with its own registry and the request instruments.
func New(service string) (*Metrics, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	meter := metric.Must(exporter.MeterProvider().Meter(service))
	return &Metrics{
		exporter: exporter,
		requests: meter.NewInt64Counter("http.server.requests",
			metric.WithDescription("Count of completed requests, by method, route and status")),
		duration: meter.NewFloat64ValueRecorder("http.server.duration_ms",
			metric.WithDescription("Request latency in milliseconds")),
	}, nil
}

// Provider is the meter provider backing the exporter.
func (m *Metrics) Provider() metric.MeterProvider { return m.exporter.MeterProvider() }

// Handler serves the Prometheus text format.
func (m *Metrics) Handler() http.Handler { return m.exporter }

// Middleware records every request. It must run inside a chi router so the
// matched route pattern is known once the handler returns.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		attrs := []attribute.KeyValue{
			attribute.String("method", r.Method),
			attribute.String("route", route),
			attribute.Int("status", status),
		}
		ctx := r.Context()
		m.requests.Add(ctx, 1, attrs...)
		m.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs...)
	})
}
