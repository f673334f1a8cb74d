package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures the per-client request rate limit.
type RateLimitConfig struct {
	// RequestsPerMinute is the maximum number of requests allowed per
	// minute per key. Defaults to 60.
	RequestsPerMinute int
	// KeyFunc extracts the rate limit key from a request. Defaults to
	// client IP.
	KeyFunc func(*gin.Context) string
}

// RateLimit returns a Gin middleware that applies per-key sliding-window
// rate limiting. It runs on the engine (not the outer handler chain) so it
// can reject with a structured 429 before any route handler starts work.
//
// This guards the gateway against a single noisy caller; the client's own
// limiter guards the upstream providers and is configured separately.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}

	w := &slidingWindow{
		seen:  make(map[string][]time.Time),
		limit: cfg.RequestsPerMinute,
	}
	go w.sweep()

	return func(c *gin.Context) {
		if !w.allow(cfg.KeyFunc(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// slidingWindow counts request timestamps per key within the trailing minute.
type slidingWindow struct {
	mu    sync.Mutex
	seen  map[string][]time.Time
	limit int
}

func (w *slidingWindow) allow(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := time.Now().Add(-time.Minute)
	valid := prune(w.seen[key], cutoff)
	if len(valid) >= w.limit {
		w.seen[key] = valid
		return false
	}
	w.seen[key] = append(valid, time.Now())
	return true
}

// sweep periodically drops keys whose entries have all aged out, so the map
// doesn't grow with every IP ever seen.
func (w *slidingWindow) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		w.mu.Lock()
		cutoff := time.Now().Add(-time.Minute)
		for key, times := range w.seen {
			valid := prune(times, cutoff)
			if len(valid) == 0 {
				delete(w.seen, key)
			} else {
				w.seen[key] = valid
			}
		}
		w.mu.Unlock()
	}
}

func prune(times []time.Time, cutoff time.Time) []time.Time {
	var kept []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
