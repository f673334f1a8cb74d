package resilience

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes jittered exponential retry delays.
//
// The delay for attempt n (0-indexed) is min(Base * 2^n, Max) scaled by a
// random factor in [1.1, 1.3). The jitter keeps callers that failed
// together from retrying in lockstep. Delay never sleeps and never mutates
// the receiver, so a single Backoff value is safe for concurrent use.
type Backoff struct {
	// Base is the delay before the first retry. Defaults to 1s.
	Base time.Duration `yaml:"base" mapstructure:"base"`
	// Max caps the exponential growth. Defaults to 30s.
	Max time.Duration `yaml:"max" mapstructure:"max"`

	// rand returns a uniform value in [0, 1). Tests may replace it.
	rand func() float64
}

// Delay returns the sleep duration before retry number attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = time.Second
	}
	limit := b.Max
	if limit <= 0 {
		limit = 30 * time.Second
	}
	if attempt < 0 {
		attempt = 0
	}

	d := float64(base) * math.Pow(2, float64(attempt))
	if d > float64(limit) {
		d = float64(limit)
	}

	random := b.rand
	if random == nil {
		random = rand.Float64
	}
	jitter := 1.1 + 0.2*random()
	return time.Duration(d * jitter)
}
