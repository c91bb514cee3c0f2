// Command ingestd is the projector's standalone runner: it is not part of
// the normative projector behavior (the generic producer dispatch layer is
// trivial glue, per spec.md §1), but gives the repo a runnable, testable
// whole. It reads newline-delimited JSON messages, runs each through the
// hook, and writes kept rows to a sink.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bc-dunia/projector/internal/hookmsg"
	"github.com/bc-dunia/projector/internal/hostsample"
	"github.com/bc-dunia/projector/internal/otelproj"
	"github.com/bc-dunia/projector/internal/projector"
	"github.com/bc-dunia/projector/internal/sink"
)

type fileConfig struct {
	Jpointers []any `json:"jpointers"`
}

func main() {
	configPath := flag.String("config", "", "path to a JSON file with a \"jpointers\" array (required)")
	inputPath := flag.String("input", "-", "NDJSON input path, or - for stdin")
	outputPath := flag.String("output", "-", "output path for the row sink, or - for stdout (ignored if -sink-addr is set)")
	sinkAddr := flag.String("sink-addr", "", "gRPC address of a downstream Ingestor service; if empty, rows are written to -output")
	otelEndpoint := flag.String("otel-endpoint", "", "OTLP gRPC endpoint for metrics/traces; if empty, the stdout exporter is used")
	otelInsecure := flag.Bool("otel-insecure", true, "disable TLS for the OTLP exporter")
	healthAddr := flag.String("health-addr", "", "address to serve a host-sample health endpoint on, e.g. :8090 (disabled if empty)")
	sampleInterval := flag.Duration("sample-interval", 10*time.Second, "host CPU/RSS sampling interval")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "ingestd: -config is required")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics, tracer, shutdownTelemetry, err := setupTelemetry(ctx, *otelEndpoint, *otelInsecure)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: telemetry setup: %v\n", err)
		os.Exit(1)
	}
	defer shutdownTelemetry()

	sampler := hostsample.New(*sampleInterval)
	go sampler.Run(ctx)
	if reg, err := sampler.RegisterGauges(metrics.Meter()); err != nil {
		slog.Warn("host sampler gauge registration failed", "error", err)
	} else {
		defer func() { _ = reg.Unregister() }()
	}

	if *healthAddr != "" {
		startHealthServer(*healthAddr, sampler)
	}

	hook := projector.New(projector.WithMetrics(metrics), projector.WithTracer(tracer))
	if err := hook.Validate(cfg.Jpointers); err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: invalid jpointers configuration: %v\n", err)
		os.Exit(1)
	}
	hctx, err := hook.Init(cfg.Jpointers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: %v\n", err)
		os.Exit(1)
	}
	defer hook.Free(hctx)

	rowSink, closeSink, err := setupSink(*sinkAddr, *outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: sink setup: %v\n", err)
		os.Exit(1)
	}
	defer closeSink()

	in, closeIn, err := openInput(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: %v\n", err)
		os.Exit(1)
	}
	defer closeIn()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, hook, hctx, in, rowSink); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "ingestd: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setupTelemetry(ctx context.Context, endpoint string, insecure bool) (*otelproj.Metrics, *otelproj.Tracer, func(), error) {
	metricsCfg := otelproj.DefaultMetricsConfig()
	tracerCfg := otelproj.DefaultConfig()
	metricsCfg.Enabled = true
	tracerCfg.Enabled = true

	if endpoint != "" {
		metricsCfg.ExporterType = otelproj.ExporterOTLPGRPC
		metricsCfg.OTLPEndpoint = endpoint
		metricsCfg.OTLPInsecure = insecure
		tracerCfg.ExporterType = otelproj.ExporterOTLPGRPC
		tracerCfg.OTLPEndpoint = endpoint
		tracerCfg.OTLPInsecure = insecure
	} else {
		metricsCfg.ExporterType = otelproj.ExporterStdout
		tracerCfg.ExporterType = otelproj.ExporterStdout
	}

	metrics, err := otelproj.NewMetrics(ctx, metricsCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("metrics: %w", err)
	}
	tracer, err := otelproj.NewTracer(ctx, tracerCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("tracer: %w", err)
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metrics.Shutdown(shutdownCtx)
		_ = tracer.Shutdown(shutdownCtx)
	}
	return metrics, tracer, shutdown, nil
}

func startHealthServer(addr string, sampler *hostsample.Sampler) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		snap := sampler.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"cpu_percent":   snap.CPUPercent,
			"mem_rss":       snap.MemRSS,
			"sampled_at":    snap.SampledAt,
			"sampler_fresh": !snap.SampledAt.IsZero(),
		})
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("health server stopped", "error", err)
		}
	}()
}

func setupSink(sinkAddr, outputPath string) (sink.Sink, func(), error) {
	if sinkAddr != "" {
		conn, err := grpc.NewClient(sinkAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("dial sink: %w", err)
		}
		client := sink.NewIngestorClient(conn)
		return sink.NewGRPCSink(client), func() { _ = conn.Close() }, nil
	}

	if outputPath == "-" {
		return sink.NewWriterSink(os.Stdout), func() {}, nil
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return sink.NewWriterSink(f), func() { _ = f.Close() }, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func run(ctx context.Context, hook *projector.Projector, hctx *projector.Context, in io.Reader, out sink.Sink) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg := hookmsg.NewMapMessage(line)

		decision, err := hook.Handle(hctx, msg)
		if err != nil {
			slog.Warn("message diagnostic", "error", err)
		}
		if decision != projector.Keep {
			continue
		}

		if err := out.Write(ctx, msg.Data()[:msg.Len()]); err != nil {
			return fmt.Errorf("sink write: %w", err)
		}
	}
	return scanner.Err()
}
