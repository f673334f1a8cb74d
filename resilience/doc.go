// Package resilience provides patterns for building fault-tolerant clients.
//
// This package includes:
//   - CircuitBreaker: Fails fast while a downstream target is unhealthy
//   - RateLimiter: Sliding-window limits over both requests and tokens
//   - Backoff: Jittered exponential delays for retry loops
//   - Retry: Retries failed operations using Backoff
//   - Bulkhead: Limits concurrent access to isolate failures
//
// The circuit breaker and rate limiter expose explicit gates (CanAttempt,
// CanProceed) so an orchestrator can decide what "denied" means for its
// own flow, for example falling over to another provider instead of
// waiting. The Execute/Wait wrappers remain for callers that just want
// the call made or an error back:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("openai"))
//	rl := resilience.NewRateLimiter(resilience.DefaultRateLimiterConfig("openai"))
//
//	if ok, reason := cb.CanAttempt(); !ok {
//	    return fmt.Errorf("skipping openai: %s", reason)
//	}
//	if ok, wait := rl.CanProceed(estimate); !ok {
//	    time.Sleep(wait) // or try another provider
//	}
package resilience
