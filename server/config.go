package server

import (
	"fmt"

	"github.com/skillsenselab/llmkit/server/middleware"
	"github.com/skillsenselab/llmkit/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "10MB"
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
	RateLimit    RateLimitConfig       `yaml:"rate_limit" mapstructure:"rate_limit"`
	Auth         AuthConfig            `yaml:"auth" mapstructure:"auth"`
}

// RateLimitConfig configures the optional per-client request limit.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// AuthConfig configures optional bearer-token authentication. The server kit
// only carries the settings; the binary builds a token validator from them.
type AuthConfig struct {
	Enabled   bool     `yaml:"enabled" mapstructure:"enabled"`
	Secret    string   `yaml:"secret" mapstructure:"secret"`
	SkipPaths []string `yaml:"skip_paths" mapstructure:"skip_paths"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
	if len(c.Auth.SkipPaths) == 0 {
		c.Auth.SkipPaths = []string{"/health", "/info", "/metrics", "/version", "/alive", "/ready"}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validation.New()
	v.Range("server.port", c.Port, 0, 65535)
	v.Min("server.read_timeout", c.ReadTimeout, 0)
	v.Min("server.write_timeout", c.WriteTimeout, 0)
	v.Min("server.idle_timeout", c.IdleTimeout, 0)
	if c.RateLimit.Enabled {
		v.Min("server.rate_limit.requests_per_minute", c.RateLimit.RequestsPerMinute, 0)
	}
	v.Custom(!c.Auth.Enabled || c.Auth.Secret != "",
		"server.auth.secret", "is required when auth is enabled")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Address returns the host:port string the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
