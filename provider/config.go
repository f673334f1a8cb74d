package provider

import (
	"time"

	"github.com/skillsenselab/llmkit/httpclient"
	"github.com/skillsenselab/llmkit/security"
)

// Config holds configuration for creating an HTTP provider adapter.
// It is backend-agnostic: the Dialect field selects the provider mapping.
//
// Resilience (retries, circuit breaking, rate limiting) deliberately does
// not appear here. The orchestrating client owns those concerns; an adapter
// that retried on its own would corrupt the client's accounting.
type Config struct {
	// Name identifies this provider instance (e.g., "primary", "fallback").
	// Defaults to the dialect name.
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Dialect selects the provider mapping (e.g., "ollama", "openai").
	// Must match a dialect registered via RegisterDialect.
	Dialect string `yaml:"dialect" json:"dialect" mapstructure:"dialect"`

	// BaseURL is the provider's API base URL (e.g., "http://localhost:11434").
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Model is the default model (e.g., "gpt-4o-mini", "llama3").
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// Temperature is the default sampling temperature (0.0-1.0).
	Temperature float64 `yaml:"temperature" json:"temperature" mapstructure:"temperature"`

	// MaxTokens is the default response length cap. 0 means provider default.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`

	// Timeout bounds each non-streaming HTTP request. Defaults to 120s.
	// Streaming requests are bounded by the caller's context instead.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// APIKey is sent as a bearer token when Auth is nil. Loaded from config
	// either plain or decrypted from api_key_encrypted.
	APIKey string `yaml:"api_key" json:"-" mapstructure:"api_key"`

	// Auth overrides APIKey with an explicit auth scheme.
	Auth *httpclient.AuthConfig `yaml:"-" json:"-" mapstructure:"-"`

	// TLS configures TLS for the connection.
	TLS *security.TLSConfig `yaml:"tls" json:"tls" mapstructure:"tls"`

	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers" json:"headers" mapstructure:"headers"`
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Name == "" {
		c.Name = c.Dialect
	}
	if c.Auth == nil && c.APIKey != "" {
		c.Auth = httpclient.BearerAuth(c.APIKey)
	}
}
