package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider       *metric.MeterProvider
	meter               otelmetric.Meter
	applicationCounter  otelmetric.Int64Counter
	applicationDuration otelmetric.Float64Histogram
}

type options struct {
	registerer promclient.Registerer
	global     bool
}

type Option func(*options)

// WithRegisterer exports into reg instead of the default Prometheus registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithoutGlobal keeps the meter provider out of otel's global state.
func WithoutGlobal() Option {
	return func(o *options) { o.global = false }
}

func New(serviceName string, opts ...Option) (*Observability, error) {
	o := options{global: true}
	for _, opt := range opts {
		opt(&o)
	}

	var exporterOpts []prometheus.Option
	if o.registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	if o.global {
		otel.SetMeterProvider(provider)
	}

	meter := provider.Meter(serviceName)

	counter, err := meter.Int64Counter(
		"applications.processed",
		otelmetric.WithDescription("Number of application submissions processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create applications counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"applications.duration",
		otelmetric.WithDescription("Application submission processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create applications histogram: %w", err)
	}

	return &Observability{
		meterProvider:       provider,
		meter:               meter,
		applicationCounter:  counter,
		applicationDuration: duration,
	}, nil
}

func (o *Observability) RecordApplicationProcessed(ctx context.Context, outcome string) {
	if o == nil || o.applicationCounter == nil {
		return
	}
	o.applicationCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) RecordApplicationDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o == nil || o.applicationDuration == nil {
		return
	}
	o.applicationDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
