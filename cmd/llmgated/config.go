package main

import (
	"github.com/skillsenselab/llmkit/client"
	"github.com/skillsenselab/llmkit/config"
	"github.com/skillsenselab/llmkit/server"
)

// Config is the daemon's full configuration, loaded from config.yml, the
// process environment, and an optional .env file.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config          `yaml:"server" mapstructure:"server"`
	Client    client.Config          `yaml:"client" mapstructure:"client"`
	Providers []config.ProviderEntry `yaml:"providers" mapstructure:"providers"`
	Telemetry TelemetryConfig        `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig toggles the OTLP exporters. Local runs keep both off and
// fall back to in-process counters and the no-op tracer.
type TelemetryConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	TracesEnabled  bool   `yaml:"traces_enabled" mapstructure:"traces_enabled"`
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
}

// ApplyDefaults fills unset fields with working defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = binaryName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return config.ValidateProviders(c.Providers)
}
