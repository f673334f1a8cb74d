package main

import (
	"github.com/skillsenselab/llmkit/client"
	"github.com/skillsenselab/llmkit/config"
	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/provider"
)

const binaryName = "llmchat"

// Config is the CLI configuration: the daemon's config minus the server
// block, so one config.yml can serve both binaries.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Client    client.Config          `yaml:"client" mapstructure:"client"`
	Providers []config.ProviderEntry `yaml:"providers" mapstructure:"providers"`
}

// ApplyDefaults fills unset fields with working defaults. Logs default to
// stderr at warn level so the completion stream on stdout stays clean.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = binaryName
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	c.ServiceConfig.ApplyDefaults()
}

// Validate rejects configurations the CLI cannot run with.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return config.ValidateProviders(c.Providers)
}

// loadConfig loads, defaults, and validates the configuration, then
// initializes the global logger from it. An empty path searches the
// conventional locations.
func loadConfig(path string) (*Config, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	var cfg Config
	if err := config.LoadConfig(binaryName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging)
	return &cfg, nil
}

// newClient decrypts provider secrets and builds the registry and the
// resilient client over it. The caller closes the registry when done.
func newClient(cfg *Config) (*client.Client, *provider.Registry, error) {
	if err := config.DecryptAPIKeys(cfg.Providers, config.SecretsKey()); err != nil {
		return nil, nil, err
	}
	registry, err := config.BuildRegistry(cfg.Providers)
	if err != nil {
		return nil, nil, err
	}
	cl, err := client.New(registry, cfg.Client, client.WithLogger(logger.GetGlobalLogger()))
	if err != nil {
		return nil, nil, err
	}
	return cl, registry, nil
}
