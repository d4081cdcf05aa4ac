package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"assignment-workers/internal/common/metrics"
)

// Observability fans scoring telemetry out to OpenTelemetry instruments and
// the promauto collectors in the metrics package. It satisfies
// matching.Recorder. A zero value is usable and records prometheus only.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	linesScored    otelmetric.Int64Counter
	solveDuration  otelmetric.Float64Histogram
}

type options struct {
	registerer     promclient.Registerer
	jaegerEndpoint string
}

type Option func(*options)

// WithRegisterer registers the OpenTelemetry exporter with reg instead of the
// default prometheus registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithJaegerEndpoint exports spans to a Jaeger collector. Without it spans
// are created but never exported.
func WithJaegerEndpoint(endpoint string) Option {
	return func(o *options) { o.jaegerEndpoint = endpoint }
}

func New(serviceName string, opts ...Option) *Observability {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	obs := &Observability{}
	obs.tracerProvider = newTracerProvider(serviceName, cfg.jaegerEndpoint)
	otel.SetTracerProvider(obs.tracerProvider)
	obs.tracer = obs.tracerProvider.Tracer(serviceName)

	var exporterOpts []prometheus.Option
	if cfg.registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(cfg.registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	linesScored, _ := meter.Int64Counter(
		"lines.scored",
		otelmetric.WithDescription("Number of input lines scored"),
	)

	solveDuration, _ := meter.Float64Histogram(
		"solve.duration",
		otelmetric.WithDescription("Assignment solver duration"),
		otelmetric.WithUnit("ms"),
	)

	obs.meterProvider = provider
	obs.meter = meter
	obs.linesScored = linesScored
	obs.solveDuration = solveDuration
	return obs
}

func (o *Observability) RecordLineScored(ctx context.Context, strategy, status string) {
	metrics.AssignmentLinesScored.WithLabelValues(strategy, status).Inc()
	if o.linesScored != nil {
		o.linesScored.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordSolveDuration(ctx context.Context, duration time.Duration, strategy string) {
	metrics.AssignmentSolveDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if o.solveDuration != nil {
		o.solveDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
			attribute.String("strategy", strategy),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			log.Printf("Failed to shut down meter provider: %v", err)
		}
	}
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			log.Printf("Failed to shut down tracer provider: %v", err)
		}
	}
}
