package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Common rate limiter errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)

// RateLimiterConfig configures a sliding-window rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for metrics/logging.
	Name string `yaml:"name" mapstructure:"name"`
	// RequestsPerMinute caps the number of requests in the trailing window.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// TokensPerMinute caps the token sum in the trailing window.
	TokensPerMinute int `yaml:"tokens_per_minute" mapstructure:"tokens_per_minute"`
	// Window is the measuring span. Defaults to one minute.
	Window time.Duration `yaml:"window" mapstructure:"window"`
	// OnLimit is called when a request is denied, with the suggested wait.
	OnLimit func(name string, wait time.Duration) `yaml:"-" mapstructure:"-"`
}

// DefaultRateLimiterConfig returns sensible defaults.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{
		Name:              name,
		RequestsPerMinute: 60,
		TokensPerMinute:   90000,
		Window:            time.Minute,
	}
}

// RateLimiter implements a sliding-window rate limiter over both request
// count and token volume. Every admission decision measures actual recorded
// usage in the trailing window; nothing refills and nothing is reserved.
//
// CanProceed only answers; it never consumes capacity. Callers record usage
// with RecordRequest once a request is actually dispatched, so permitted
// checks that never turn into requests cost nothing.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	entries  []windowEntry
	tokenSum int
}

type windowEntry struct {
	at     time.Time
	tokens int
}

// NewRateLimiter creates a new rate limiter with an empty window.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.TokensPerMinute <= 0 {
		config.TokensPerMinute = 90000
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &RateLimiter{config: config}
}

// CanProceed reports whether a request with the given token estimate fits
// the current window. When denied, the returned wait is how long until the
// oldest window entry expires; callers should sleep at least that long and
// check again. A fresh check is not guaranteed to pass: other callers may
// have consumed the freed capacity in between.
//
// A denial with wait zero means the estimate alone exceeds the token cap,
// so no amount of waiting can admit the request.
func (rl *RateLimiter) CanProceed(estimatedTokens int) (allowed bool, wait time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.prune(now)

	if len(rl.entries) < rl.config.RequestsPerMinute && rl.tokenSum+estimatedTokens <= rl.config.TokensPerMinute {
		return true, 0
	}

	if len(rl.entries) > 0 {
		wait = rl.config.Window - now.Sub(rl.entries[0].at)
		if wait < 0 {
			wait = 0
		}
	}
	if rl.config.OnLimit != nil {
		rl.config.OnLimit(rl.config.Name, wait)
	}
	return false, wait
}

// RecordRequest records one dispatched request and its token usage in the
// window. Call it exactly once per attempt that actually went out, never
// for checks that were merely permitted.
func (rl *RateLimiter) RecordRequest(tokens int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.prune(now)
	rl.entries = append(rl.entries, windowEntry{at: now, tokens: tokens})
	rl.tokenSum += tokens
}

// Wait blocks until a request slot is free or the context is cancelled,
// then records the request. It returns ErrRateLimited when waiting cannot
// help (the window is empty yet the request is still denied).
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		allowed, wait := rl.CanProceed(0)
		if allowed {
			rl.RecordRequest(0)
			return nil
		}
		if wait <= 0 {
			return ErrRateLimited
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Execute runs a function if the rate limit allows, recording the request.
func (rl *RateLimiter) Execute(fn func() error) error {
	allowed, _ := rl.CanProceed(0)
	if !allowed {
		return ErrRateLimited
	}
	rl.RecordRequest(0)
	return fn()
}

// InWindow returns the recorded request count and token sum currently
// inside the window.
func (rl *RateLimiter) InWindow() (requests, tokens int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.prune(time.Now())
	return len(rl.entries), rl.tokenSum
}

// Window returns the measuring span.
func (rl *RateLimiter) Window() time.Duration {
	return rl.config.Window
}

// prune evicts entries that have aged out of the window.
// Callers must hold the lock. Entries are in arrival order, so eviction
// stops at the first entry still inside the window.
func (rl *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-rl.config.Window)
	i := 0
	for i < len(rl.entries) && !rl.entries[i].at.After(cutoff) {
		rl.tokenSum -= rl.entries[i].tokens
		i++
	}
	if i > 0 {
		rl.entries = rl.entries[i:]
	}
}
