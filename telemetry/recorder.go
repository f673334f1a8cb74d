package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ProviderStats is a read-only aggregate of one provider's recorded outcomes.
type ProviderStats struct {
	Provider       string  `json:"provider"`
	Total          int64   `json:"total"`
	Successes      int64   `json:"successes"`
	Failures       int64   `json:"failures"`
	Retries        int64   `json:"retries"`
	RateLimited    int64   `json:"rate_limited"`
	CircuitBlocked int64   `json:"circuit_blocked"`
	Failovers      int64   `json:"failovers"`
	TotalTokens    int64   `json:"total_tokens"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
	SuccessRate    float64 `json:"success_rate"`
}

// providerCounters holds one provider's counters behind its own lock, so
// recording against a busy provider never serializes an idle one.
type providerCounters struct {
	mu             sync.Mutex
	successes      int64
	failures       int64
	retries        int64
	rateLimited    int64
	circuitBlocked int64
	failovers      int64
	tokens         int64
	latencySum     time.Duration
}

// Recorder accumulates per-provider outcome counters. The client ranks
// failover candidates by these counters, so they drive routing as well as
// reporting. All methods are safe for concurrent use.
type Recorder struct {
	mu        sync.RWMutex
	providers map[string]*providerCounters

	// OpenTelemetry instruments, nil unless built with a meter.
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	tokensTotal     metric.Int64Counter
	retryTotal      metric.Int64Counter
	failoverTotal   metric.Int64Counter
}

// NewRecorder creates an in-memory recorder.
func NewRecorder() *Recorder {
	return &Recorder{providers: make(map[string]*providerCounters)}
}

// NewRecorderWithMeter creates a recorder that additionally publishes
// llm.* metrics on the given meter. The in-memory counters remain the
// source of truth for provider ranking.
func NewRecorderWithMeter(meter metric.Meter) (*Recorder, error) {
	r := NewRecorder()

	var err error
	r.requestTotal, err = meter.Int64Counter("llm.request.total",
		metric.WithDescription("Completed LLM requests by provider and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.request.total counter: %w", err)
	}

	r.requestDuration, err = meter.Float64Histogram("llm.request.duration",
		metric.WithDescription("Duration of successful LLM requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.request.duration histogram: %w", err)
	}

	r.tokensTotal, err = meter.Int64Counter("llm.tokens.total",
		metric.WithDescription("Token totals by provider (chunk count stands in for tokens)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.tokens.total counter: %w", err)
	}

	r.retryTotal, err = meter.Int64Counter("llm.retry.total",
		metric.WithDescription("Retry decisions by provider"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.retry.total counter: %w", err)
	}

	r.failoverTotal, err = meter.Int64Counter("llm.failover.total",
		metric.WithDescription("Failovers away from a provider"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.failover.total counter: %w", err)
	}

	return r, nil
}

// counters returns the counter block for a provider, creating it on first use.
func (r *Recorder) counters(provider string) *providerCounters {
	r.mu.RLock()
	pc, ok := r.providers[provider]
	r.mu.RUnlock()
	if ok {
		return pc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if pc, ok = r.providers[provider]; ok {
		return pc
	}
	pc = &providerCounters{}
	r.providers[provider] = pc
	return pc
}

// RecordSuccess records a completed stream. tokens is the stream's chunk
// count, a deliberate proxy for real token counts; the success-rate
// ranking is calibrated against it.
func (r *Recorder) RecordSuccess(ctx context.Context, provider string, latency time.Duration, tokens int) {
	pc := r.counters(provider)
	pc.mu.Lock()
	pc.successes++
	pc.tokens += int64(tokens)
	pc.latencySum += latency
	pc.mu.Unlock()

	if r.requestTotal != nil {
		r.requestTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("status", "success"),
		))
		r.requestDuration.Record(ctx, latency.Seconds(), metric.WithAttributes(
			attribute.String("provider", provider),
		))
		r.tokensTotal.Add(ctx, int64(tokens), metric.WithAttributes(
			attribute.String("provider", provider),
		))
	}
}

// RecordFailure records one failed attempt against a provider.
func (r *Recorder) RecordFailure(ctx context.Context, provider string) {
	pc := r.counters(provider)
	pc.mu.Lock()
	pc.failures++
	pc.mu.Unlock()

	if r.requestTotal != nil {
		r.requestTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("status", "failure"),
		))
	}
}

// RecordRetry records a decision to retry against the same provider.
func (r *Recorder) RecordRetry(ctx context.Context, provider string) {
	pc := r.counters(provider)
	pc.mu.Lock()
	pc.retries++
	pc.mu.Unlock()

	if r.retryTotal != nil {
		r.retryTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
		))
	}
}

// RecordRateLimited records a rate-limiter denial.
func (r *Recorder) RecordRateLimited(ctx context.Context, provider string) {
	pc := r.counters(provider)
	pc.mu.Lock()
	pc.rateLimited++
	pc.mu.Unlock()
}

// RecordCircuitBlocked records a circuit-breaker denial.
func (r *Recorder) RecordCircuitBlocked(ctx context.Context, provider string) {
	pc := r.counters(provider)
	pc.mu.Lock()
	pc.circuitBlocked++
	pc.mu.Unlock()
}

// RecordFailover records the client moving past a provider to the next
// candidate.
func (r *Recorder) RecordFailover(ctx context.Context, provider string) {
	pc := r.counters(provider)
	pc.mu.Lock()
	pc.failovers++
	pc.mu.Unlock()

	if r.failoverTotal != nil {
		r.failoverTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
		))
	}
}

// SuccessRate scores a provider for candidate ordering: successes divided
// by total attempts. A provider with no attempts yet scores 1.0 so new
// providers get explored rather than penalized; registration order decides
// between it and a provider with a perfect record.
func (r *Recorder) SuccessRate(provider string) float64 {
	r.mu.RLock()
	pc, ok := r.providers[provider]
	r.mu.RUnlock()
	if !ok {
		return 1.0
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	attempts := pc.successes + pc.failures
	if attempts == 0 {
		return 1.0
	}
	return float64(pc.successes) / float64(attempts)
}

// Stats returns the aggregate for one provider. Providers never recorded
// against return a zero-valued entry.
func (r *Recorder) Stats(provider string) ProviderStats {
	r.mu.RLock()
	pc, ok := r.providers[provider]
	r.mu.RUnlock()

	stats := ProviderStats{Provider: provider, SuccessRate: 1.0}
	if !ok {
		return stats
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	stats.Successes = pc.successes
	stats.Failures = pc.failures
	stats.Total = pc.successes + pc.failures
	stats.Retries = pc.retries
	stats.RateLimited = pc.rateLimited
	stats.CircuitBlocked = pc.circuitBlocked
	stats.Failovers = pc.failovers
	stats.TotalTokens = pc.tokens
	if stats.Total > 0 {
		stats.SuccessRate = float64(pc.successes) / float64(stats.Total)
	}
	if pc.successes > 0 {
		stats.AvgLatencyMs = float64(pc.latencySum) / float64(time.Millisecond) / float64(pc.successes)
	}
	return stats
}

// Snapshot returns aggregates for every provider seen so far. The result
// is a copy; recording may continue concurrently.
func (r *Recorder) Snapshot() map[string]ProviderStats {
	r.mu.RLock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	r.mu.RUnlock()

	out := make(map[string]ProviderStats, len(names))
	for _, name := range names {
		out[name] = r.Stats(name)
	}
	return out
}

// Reset discards all counters for all providers.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = make(map[string]*providerCounters)
}
