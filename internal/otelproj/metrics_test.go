package otelproj

import (
	"context"
	"testing"
	"time"
)

func TestDefaultMetricsConfig(t *testing.T) {
	cfg := DefaultMetricsConfig()
	if cfg.Enabled {
		t.Error("expected metrics to be disabled by default")
	}
	if cfg.ServiceName != "projector" {
		t.Errorf("expected service name 'projector', got %q", cfg.ServiceName)
	}
	if cfg.ExporterType != ExporterNone {
		t.Errorf("expected ExporterNone, got %v", cfg.ExporterType)
	}
}

func TestNewMetricsDisabled(t *testing.T) {
	ctx := context.Background()
	m, err := NewMetrics(ctx, DefaultMetricsConfig())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	defer m.Shutdown(ctx)

	if m.Enabled() {
		t.Error("expected metrics to be disabled")
	}
	// Instruments are still registered against the no-op provider, so
	// recording must not panic even when disabled.
	m.RecordKept(ctx)
	m.RecordDropped(ctx, "discard_true")
	m.RecordErrored(ctx, "contract")
	m.RecordEvalDuration(ctx, 1.2)
}

func TestNewMetricsStdoutExporter(t *testing.T) {
	ctx := context.Background()
	cfg := &MetricsConfig{Enabled: true, ServiceName: "test-service", ExporterType: ExporterStdout}

	m, err := NewMetrics(ctx, cfg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	defer m.Shutdown(ctx)

	if !m.Enabled() {
		t.Error("expected metrics to be enabled")
	}

	m.RecordKept(ctx)
	m.RecordDropped(ctx, "discard_false")
	m.RecordErrored(ctx, "format")
	m.RecordEvalDuration(ctx, 3.4)
}

func TestGlobalMetrics(t *testing.T) {
	ctx := context.Background()
	cfg := &MetricsConfig{Enabled: true, ServiceName: "test-service", ExporterType: ExporterStdout}

	m, err := NewMetrics(ctx, cfg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	defer m.Shutdown(ctx)

	SetGlobalMetrics(m)
	defer SetGlobalMetrics(nil)

	if GetGlobalMetrics() != m {
		t.Error("GetGlobalMetrics did not return the set instance")
	}
}

func TestGetGlobalMetricsUninitialized(t *testing.T) {
	SetGlobalMetrics(nil)

	m := GetGlobalMetrics()
	if m == nil {
		t.Fatal("GetGlobalMetrics returned nil")
	}
	if m.Enabled() {
		t.Error("expected no-op metrics to be disabled")
	}
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	if m.Enabled() {
		t.Error("expected no-op metrics to be disabled")
	}

	ctx := context.Background()
	m.RecordKept(ctx)
	m.RecordDropped(ctx, "discard_true")
	m.RecordErrored(ctx, "contract")
	m.RecordEvalDuration(ctx, 0.5)

	if err := m.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestMetricsShutdownWithTimeout(t *testing.T) {
	ctx := context.Background()
	cfg := &MetricsConfig{Enabled: true, ServiceName: "test-service", ExporterType: ExporterStdout}

	m, err := NewMetrics(ctx, cfg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestMetricsMeterNotNil(t *testing.T) {
	ctx := context.Background()
	m, err := NewMetrics(ctx, DefaultMetricsConfig())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	defer m.Shutdown(ctx)

	if m.Meter() == nil {
		t.Error("expected non-nil Meter for host sampler registration")
	}
}
