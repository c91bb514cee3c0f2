// Package otelproj provides OpenTelemetry metrics and tracing for the
// projector hook, adapted from the teacher's internal/otel package: the same
// Config/exporter-selection/global-singleton shape, rebound to the
// projector's own instruments (spec.md §11.1).
package otelproj

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// MetricsConfig holds configuration for the OpenTelemetry metrics pipeline.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active. Default: false (no-op).
	Enabled bool

	// ServiceName is the name reported in the metrics resource.
	ServiceName string

	// ServiceVersion is the version reported in the metrics resource.
	ServiceVersion string

	// ExporterType specifies which exporter to use.
	ExporterType ExporterType

	// OTLPEndpoint is the endpoint for OTLP exporters (e.g., "localhost:4317").
	OTLPEndpoint string

	// OTLPInsecure disables TLS for OTLP connections.
	OTLPInsecure bool

	// Attributes are additional attributes added to the metrics resource.
	Attributes map[string]string
}

// DefaultMetricsConfig returns a configuration with metrics disabled.
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled:      false,
		ServiceName:  "projector",
		ExporterType: ExporterNone,
	}
}

// Metrics wraps the projector's OpenTelemetry metric instruments: a kept/
// dropped/errored message counter trio and an evaluation-duration histogram,
// per spec.md §11.1.
type Metrics struct {
	config        *MetricsConfig
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	shutdown      func(context.Context) error
	mu            sync.RWMutex

	messagesKept    metric.Int64Counter
	messagesDropped metric.Int64Counter
	messagesErrored metric.Int64Counter
	evalDuration    metric.Float64Histogram
}

var (
	globalMetrics   *Metrics
	globalMetricsMu sync.RWMutex
)

// NewMetrics creates a Metrics instance from cfg.
func NewMetrics(ctx context.Context, cfg *MetricsConfig) (*Metrics, error) {
	if cfg == nil {
		cfg = DefaultMetricsConfig()
	}

	m := &Metrics{config: cfg}

	if !cfg.Enabled || cfg.ExporterType == ExporterNone {
		m.meterProvider = sdkmetric.NewMeterProvider()
		m.meter = m.meterProvider.Meter(cfg.ServiceName)
		m.shutdown = func(context.Context) error { return nil }
		return m, m.registerInstruments()
	}

	exporter, err := m.createExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	res, err := m.createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	m.meterProvider = mp
	m.meter = mp.Meter(cfg.ServiceName)
	m.shutdown = mp.Shutdown

	if err := m.registerInstruments(); err != nil {
		return nil, fmt.Errorf("failed to register metric instruments: %w", err)
	}

	return m, nil
}

func (m *Metrics) createExporter(ctx context.Context, cfg *MetricsConfig) (sdkmetric.Exporter, error) {
	switch cfg.ExporterType {
	case ExporterStdout:
		return stdoutmetric.New()

	case ExporterOTLPGRPC:
		var opts []otlpmetricgrpc.Option
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint))
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		return otlpmetricgrpc.New(ctx, opts...)

	case ExporterOTLPHTTP:
		var opts []otlpmetrichttp.Option
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint))
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unknown exporter type: %s", cfg.ExporterType)
	}
}

func (m *Metrics) createResource(cfg *MetricsConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	for k, v := range cfg.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes("", attrs...))
}

func (m *Metrics) registerInstruments() error {
	var err error

	m.messagesKept, err = m.meter.Int64Counter(
		"projector.messages.kept",
		metric.WithDescription("Count of messages rewritten to a binary row and kept"),
	)
	if err != nil {
		return fmt.Errorf("failed to create messages.kept counter: %w", err)
	}

	m.messagesDropped, err = m.meter.Int64Counter(
		"projector.messages.dropped",
		metric.WithDescription("Count of messages dropped by filter/action decision"),
	)
	if err != nil {
		return fmt.Errorf("failed to create messages.dropped counter: %w", err)
	}

	m.messagesErrored, err = m.meter.Int64Counter(
		"projector.messages.errored",
		metric.WithDescription("Count of messages dropped due to a contract or format diagnostic"),
	)
	if err != nil {
		return fmt.Errorf("failed to create messages.errored counter: %w", err)
	}

	m.evalDuration, err = m.meter.Float64Histogram(
		"projector.eval.duration",
		metric.WithDescription("Duration of one message's needle evaluation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("failed to create eval.duration histogram: %w", err)
	}

	return nil
}

// RecordKept records a message kept outcome.
func (m *Metrics) RecordKept(ctx context.Context) {
	if m.messagesKept == nil {
		return
	}
	m.messagesKept.Add(ctx, 1)
}

// RecordDropped records a silent drop, tagged with action as its "action"
// attribute.
func (m *Metrics) RecordDropped(ctx context.Context, action string) {
	if m.messagesDropped == nil {
		return
	}
	m.messagesDropped.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// RecordErrored records a drop caused by a contract or format diagnostic.
func (m *Metrics) RecordErrored(ctx context.Context, category string) {
	if m.messagesErrored == nil {
		return
	}
	m.messagesErrored.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}

// RecordEvalDuration records how long one message's evaluation took, in milliseconds.
func (m *Metrics) RecordEvalDuration(ctx context.Context, ms float64) {
	if m.evalDuration == nil {
		return
	}
	m.evalDuration.Record(ctx, ms)
}

// Meter exposes the underlying meter so collaborating packages (internal/
// hostsample) can register their own observable instruments against the
// same provider.
func (m *Metrics) Meter() metric.Meter {
	return m.meter
}

// Shutdown flushes and stops the metrics pipeline.
func (m *Metrics) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown != nil {
		return m.shutdown(ctx)
	}
	return nil
}

// Enabled reports whether metrics collection is active.
func (m *Metrics) Enabled() bool {
	return m.config.Enabled && m.config.ExporterType != ExporterNone
}

// MeterProvider returns the underlying meter provider.
func (m *Metrics) MeterProvider() *sdkmetric.MeterProvider {
	return m.meterProvider
}

// SetGlobalMetrics sets the global metrics instance.
func SetGlobalMetrics(m *Metrics) {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	globalMetrics = m
	if m != nil && m.Enabled() {
		otel.SetMeterProvider(m.meterProvider)
	}
}

// GetGlobalMetrics returns the global metrics instance, or a no-op instance
// if none has been set.
func GetGlobalMetrics() *Metrics {
	globalMetricsMu.RLock()
	defer globalMetricsMu.RUnlock()
	if globalMetrics == nil {
		return NoopMetrics()
	}
	return globalMetrics
}

// NoopMetrics returns a metrics instance that records nothing.
func NoopMetrics() *Metrics {
	cfg := DefaultMetricsConfig()
	mp := sdkmetric.NewMeterProvider()
	m := &Metrics{
		config:        cfg,
		meterProvider: mp,
		meter:         mp.Meter(cfg.ServiceName),
		shutdown:      func(context.Context) error { return nil },
	}
	_ = m.registerInstruments()
	return m
}
