package client

import (
	"time"

	"github.com/skillsenselab/llmkit/resilience"
)

// Config tunes the orchestrator. The zero value is usable: a single
// attempt per provider, no attempt timeout, and the resilience defaults
// (breaker 5 failures / 60s recovery / 3 probes, limiter 60 rpm over a
// one-minute window, backoff 1s doubling to 30s).
type Config struct {
	// MaxRetries is the retry budget per provider after the initial
	// attempt. Zero means a single attempt.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// AttemptTimeout bounds each dispatched attempt. Expiry counts as a
	// retryable failure, like a network timeout. Zero disables the
	// per-attempt deadline; the caller's context still applies.
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`

	// Backoff shapes the delay between retries against the same provider.
	Backoff resilience.Backoff `yaml:"backoff" mapstructure:"backoff"`

	// Breaker applies to every provider; a breaker per provider is built
	// at construction. Name and OnStateChange are managed by the client.
	Breaker resilience.CircuitBreakerConfig `yaml:"breaker" mapstructure:"breaker"`

	// RateLimit configures the sliding window shared by all providers.
	RateLimit resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`

	// MaxLimiterWait caps the total time one call may spend waiting for
	// the shared window to drain. Beyond it RATE_LIMITED surfaces to the
	// caller: the window is shared, so failing over cannot help. Defaults
	// to twice the limiter window.
	MaxLimiterWait time.Duration `yaml:"max_limiter_wait" mapstructure:"max_limiter_wait"`

	// MaxConcurrentStreams bounds in-flight streams per provider.
	// Zero means unbounded.
	MaxConcurrentStreams int `yaml:"max_concurrent_streams" mapstructure:"max_concurrent_streams"`
}

func (c *Config) applyDefaults() {
	if c.MaxLimiterWait <= 0 {
		window := c.RateLimit.Window
		if window <= 0 {
			window = time.Minute
		}
		c.MaxLimiterWait = 2 * window
	}
}
