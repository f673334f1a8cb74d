package client

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/errors"
	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/provider"
	"github.com/skillsenselab/llmkit/resilience"
	"github.com/skillsenselab/llmkit/telemetry"
)

// Client orchestrates completion requests across the registered providers:
// candidate ordering by observed success rate, circuit breaking and rate
// limiting per dispatch, retries with jittered backoff, and failover, all
// behind one logical chunk stream.
//
// Construct with New; the zero value is not usable. One Client is intended
// to live for the process and be shared by all callers. Breakers, the
// limiter window, and telemetry are shared across calls; candidate order
// and retry state are call-local.
type Client struct {
	registry *provider.Registry
	cfg      Config

	breakers  map[string]*resilience.CircuitBreaker
	bulkheads map[string]*resilience.Bulkhead
	limiter   *resilience.RateLimiter
	recorder  *telemetry.Recorder
	backoff   resilience.Backoff

	log     *logger.Logger
	tracer  trace.Tracer
	onEvent func(Event)
}

// Option customizes a Client beyond what Config carries.
type Option func(*Client)

// WithLogger sets the logger. Defaults to a console logger tagged
// "llm-client".
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRecorder injects a telemetry recorder, e.g. one built with an OTel
// meter. Defaults to a plain in-memory recorder.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithTracer sets the tracer used to span each stream. Defaults to the
// globally registered tracer provider (a no-op unless one is installed).
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithEventHook registers a callback for resilience events (breaker
// transitions, failovers). The hook runs inline and must not block.
func WithEventHook(fn func(Event)) Option {
	return func(c *Client) { c.onEvent = fn }
}

// New builds a client over the given registry. The registry must already
// hold every provider this client will route to: one circuit breaker per
// provider is created here, closed, and lives for the client's lifetime.
func New(registry *provider.Registry, cfg Config, opts ...Option) (*Client, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, stderrors.New("client: at least one registered provider is required")
	}
	cfg.applyDefaults()

	limiterCfg := cfg.RateLimit
	if limiterCfg.Name == "" {
		limiterCfg.Name = "llm-shared"
	}

	c := &Client{
		registry: registry,
		cfg:      cfg,
		breakers: make(map[string]*resilience.CircuitBreaker),
		limiter:  resilience.NewRateLimiter(limiterCfg),
		recorder: telemetry.NewRecorder(),
		backoff:  cfg.Backoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewDefault("llm-client")
	}
	if c.tracer == nil {
		c.tracer = telemetry.Tracer("llmkit/client")
	}

	if cfg.MaxConcurrentStreams > 0 {
		c.bulkheads = make(map[string]*resilience.Bulkhead)
	}
	for _, name := range registry.Names() {
		c.breakers[name] = resilience.NewCircuitBreaker(c.breakerConfig(name))
		if cfg.MaxConcurrentStreams > 0 {
			c.bulkheads[name] = resilience.NewBulkhead(resilience.BulkheadConfig{
				Name:          name,
				MaxConcurrent: cfg.MaxConcurrentStreams,
			})
		}
	}

	return c, nil
}

// breakerConfig derives one provider's breaker config, chaining the
// client's logging and event feed in front of any user hook.
func (c *Client) breakerConfig(name string) resilience.CircuitBreakerConfig {
	bcfg := c.cfg.Breaker
	bcfg.Name = name
	user := c.cfg.Breaker.OnStateChange
	bcfg.OnStateChange = func(name string, from, to resilience.State) {
		c.log.Warn("circuit breaker state change", logger.Fields(
			"provider", name,
			"from", from.String(),
			"to", to.String(),
		))
		c.emit(Event{Type: EventBreakerChange, Provider: name, From: from.String(), To: to.String()})
		if user != nil {
			user(name, from, to)
		}
	}
	return bcfg
}

// Generate runs a completion to the end and returns the concatenated text.
func (c *Client) Generate(ctx context.Context, req chat.Request) (string, error) {
	ch, err := c.StreamChat(ctx, req)
	if err != nil {
		return "", err
	}
	return chat.Collect(ctx, ch)
}

// MetricsSnapshot is a point-in-time view of telemetry and breaker state
// for every registered provider.
type MetricsSnapshot struct {
	Providers map[string]telemetry.ProviderStats    `json:"providers"`
	Breakers  map[string]resilience.BreakerSnapshot `json:"breakers"`
}

// Metrics reports current per-provider stats and breaker states. Providers
// with no recorded traffic appear with zero counters.
func (c *Client) Metrics() MetricsSnapshot {
	names := c.registry.Names()
	snap := MetricsSnapshot{
		Providers: make(map[string]telemetry.ProviderStats, len(names)),
		Breakers:  make(map[string]resilience.BreakerSnapshot, len(names)),
	}
	for _, name := range names {
		snap.Providers[name] = c.recorder.Stats(name)
		snap.Breakers[name] = c.breakers[name].Snapshot()
	}
	return snap
}

// Recorder exposes the telemetry recorder, for surfaces that render stats
// directly.
func (c *Client) Recorder() *telemetry.Recorder { return c.recorder }

// Providers returns the registered provider names in registration order.
func (c *Client) Providers() []string { return c.registry.Names() }

// ResetCircuitBreaker force-closes one provider's breaker.
func (c *Client) ResetCircuitBreaker(name string) error {
	br, ok := c.breakers[name]
	if !ok {
		return errors.NotFound("circuit breaker", name)
	}
	br.Reset()
	c.log.Info("circuit breaker reset", logger.Fields("provider", name))
	return nil
}

// ResetCircuitBreakers force-closes every breaker.
func (c *Client) ResetCircuitBreakers() {
	for _, br := range c.breakers {
		br.Reset()
	}
	c.log.Info("all circuit breakers reset")
}

// ResetMetrics zeroes all telemetry counters. Breaker state is unaffected.
func (c *Client) ResetMetrics() {
	c.recorder.Reset()
	c.log.Info("telemetry counters reset")
}
