package httpclient

import (
	"fmt"
	"time"

	"github.com/skillsenselab/llmkit/resilience"
)

// defaultTimeout bounds buffered requests when Timeout is unset. Streaming
// requests ignore it and live until their context ends.
const defaultTimeout = 30 * time.Second

// Config describes one outbound HTTP adapter. The wire-level fields (name,
// base URL, timeout, TLS, headers) can load from config files; auth and
// resilience are program-level decisions and are only settable in code.
type Config struct {
	// Name identifies the adapter in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each buffered request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth is the default credential applied to every request. A request
	// carrying its own Auth overrides it.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS customizes the transport's TLS setup.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are defaults applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry wraps buffered requests when set. Nil means one attempt.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// CircuitBreaker guards the adapter when set.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter throttles the adapter when set.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRetryConfig returns the resilience package's retry defaults bound
// to this package's error classification, so only transport faults and
// retryable HTTP statuses trigger another attempt.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
