// Package telemetry tracks per-provider outcomes for the resilient client.
//
// The Recorder keeps in-memory counters (successes, failures, retries,
// rate-limit and circuit-breaker blocks, latency, token totals) keyed by
// provider name. The client ranks failover candidates by Recorder success
// rate, so these counters drive routing as well as reporting.
//
// InitMeter and InitTracer wire the OTLP exporters; a Recorder built with
// NewRecorderWithMeter publishes llm.* instruments alongside its in-memory
// counters:
//
//	mp, err := telemetry.InitMeter(ctx, telemetry.DefaultMeterConfig("llmgated"))
//	defer mp.Shutdown(ctx)
//
//	rec, err := telemetry.NewRecorderWithMeter(telemetry.Meter("llmgated"))
//	rec.RecordSuccess(ctx, "openai", 420*time.Millisecond, 57)
package telemetry
