package main

import (
	"context"
	"fmt"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/telemetry"
	"github.com/skillsenselab/llmkit/version"
)

// initTelemetry starts the enabled OTLP exporters and registers them
// globally. Either return value is nil when the matching exporter is off.
func initTelemetry(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, *sdktrace.TracerProvider, error) {
	var (
		meterProvider  *sdkmetric.MeterProvider
		tracerProvider *sdktrace.TracerProvider
		err            error
	)

	if cfg.Telemetry.MetricsEnabled {
		mc := telemetry.DefaultMeterConfig(cfg.Name)
		mc.ServiceVersion = version.Version
		mc.Environment = cfg.Environment
		if cfg.Telemetry.Endpoint != "" {
			mc.Endpoint = cfg.Telemetry.Endpoint
		}
		meterProvider, err = telemetry.InitMeter(ctx, mc)
		if err != nil {
			return nil, nil, fmt.Errorf("init meter: %w", err)
		}
	}

	if cfg.Telemetry.TracesEnabled {
		tc := telemetry.DefaultTracerConfig(cfg.Name)
		tc.ServiceVersion = version.Version
		tc.Environment = cfg.Environment
		if cfg.Telemetry.Endpoint != "" {
			tc.Endpoint = cfg.Telemetry.Endpoint
		}
		tracerProvider, err = telemetry.InitTracer(ctx, tc)
		if err != nil {
			return nil, nil, fmt.Errorf("init tracer: %w", err)
		}
	}

	return meterProvider, tracerProvider, nil
}

// shutdownTelemetry flushes and stops the exporters, bounded so a dead
// collector cannot hang process exit.
func shutdownTelemetry(mp *sdkmetric.MeterProvider, tp *sdktrace.TracerProvider, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if mp != nil {
		if err := mp.Shutdown(ctx); err != nil {
			log.Warn("meter provider shutdown error", logger.Fields("error", err.Error()))
		}
	}
	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer provider shutdown error", logger.Fields("error", err.Error()))
		}
	}
}
