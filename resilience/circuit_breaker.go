// Package resilience provides patterns for building fault-tolerant systems.
// It includes circuit breaker, retry, backoff, bulkhead, and rate limiting patterns.
package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows limited probe requests to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the circuit rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies this circuit breaker for metrics/logging.
	Name string `yaml:"name" mapstructure:"name"`
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	// RecoveryTimeout is how long the circuit stays open before admitting probes.
	RecoveryTimeout time.Duration `yaml:"recovery_timeout" mapstructure:"recovery_timeout"`
	// HalfOpenMaxProbes is the number of probe requests allowed in half-open state.
	HalfOpenMaxProbes int `yaml:"half_open_max_probes" mapstructure:"half_open_max_probes"`
	// OnStateChange is called when state changes.
	OnStateChange func(name string, from, to State) `yaml:"-" mapstructure:"-"`
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:              name,
		FailureThreshold:  5,
		RecoveryTimeout:   60 * time.Second,
		HalfOpenMaxProbes: 3,
	}
}

// CircuitBreaker implements the circuit breaker pattern.
// It prevents hammering an unhealthy backend by failing fast once
// consecutive failures cross a threshold.
//
// States:
//   - Closed: Normal operation, requests pass through
//   - Open: Backend is unhealthy, requests are rejected immediately
//   - Half-Open: Testing recovery, a limited number of probes allowed
//
// The breaker itself performs no I/O and keeps no timers. All transitions
// happen on the request path: an open circuit flips to half-open inside
// CanAttempt once the recovery timeout has elapsed.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu              sync.RWMutex
	state           State
	failures        int // consecutive failures
	successes       int
	lastFailureTime time.Time
	halfOpenProbes  int // probes admitted since entering half-open
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 60 * time.Second
	}
	if config.HalfOpenMaxProbes <= 0 {
		config.HalfOpenMaxProbes = 3
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// CanAttempt reports whether a request may be dispatched. When it returns
// false the reason names what blocked the request. An open circuit past its
// recovery timeout flips to half-open here and admits the caller as the
// first probe; each admission in half-open consumes one probe slot.
func (cb *CircuitBreaker) CanAttempt() (allowed bool, reason string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true, ""
	case StateOpen:
		remaining := cb.config.RecoveryTimeout - time.Since(cb.lastFailureTime)
		if remaining > 0 {
			return false, fmt.Sprintf("circuit open, %s until recovery", remaining.Round(time.Millisecond))
		}
		cb.toState(StateHalfOpen)
		cb.halfOpenProbes = 1
		return true, ""
	case StateHalfOpen:
		if cb.halfOpenProbes < cb.config.HalfOpenMaxProbes {
			cb.halfOpenProbes++
			return true, ""
		}
		// Probe budget spent without a recorded success.
		cb.toState(StateOpen)
		cb.lastFailureTime = time.Now()
		return false, "circuit half-open, probe budget exhausted"
	default:
		return false, "circuit in unknown state"
	}
}

// RecordSuccess records a successful request outcome. A success in
// half-open closes the circuit; a success while open (a late probe result)
// is ignored, recovery always goes through half-open.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		cb.toState(StateClosed)
	}
}

// RecordFailure records a failed request outcome. Crossing the failure
// threshold in closed state, or any failure in half-open, opens the circuit.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.toState(StateOpen)
		}
	case StateHalfOpen:
		cb.toState(StateOpen)
	}
}

// Execute runs the given function through the circuit breaker.
// Returns ErrCircuitOpen if the circuit rejects the request.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if allowed, _ := cb.CanAttempt(); !allowed {
		return ErrCircuitOpen
	}

	err := fn()
	if err != nil {
		cb.RecordFailure()
	} else {
		cb.RecordSuccess()
	}
	return err
}

// State returns the current circuit breaker state. An open circuit reports
// open even past its recovery timeout; the flip to half-open happens only
// on the request path via CanAttempt.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset resets the circuit breaker to closed state with all counters cleared.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.toState(StateClosed)
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenProbes = 0
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}

// BreakerSnapshot is a point-in-time view of a circuit breaker.
type BreakerSnapshot struct {
	Name        string    `json:"name"`
	State       string    `json:"state"`
	Failures    int       `json:"consecutive_failures"`
	LastFailure time.Time `json:"last_failure,omitzero"`
}

// Snapshot returns a consistent view of the breaker for metrics surfaces.
func (cb *CircuitBreaker) Snapshot() BreakerSnapshot {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return BreakerSnapshot{
		Name:        cb.config.Name,
		State:       cb.state.String(),
		Failures:    cb.failures,
		LastFailure: cb.lastFailureTime,
	}
}

// toState transitions to a new state. Callers must hold the write lock.
func (cb *CircuitBreaker) toState(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to

	// Reset counters on state change
	switch to {
	case StateClosed:
		cb.failures = 0
		cb.successes = 0
		cb.halfOpenProbes = 0
	case StateHalfOpen:
		cb.halfOpenProbes = 0
		cb.successes = 0
	case StateOpen:
		cb.halfOpenProbes = 0
		cb.successes = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
