package main

import (
	"strings"
	"testing"

	"github.com/skillsenselab/llmkit/config"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Providers: []config.ProviderEntry{{Dialect: "ollama"}}}
	cfg.ApplyDefaults()

	if cfg.Name != "llmchat" {
		t.Errorf("expected default name llmchat, got %q", cfg.Name)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn log level for the CLI, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("expected logs on stderr, got %q", cfg.Logging.Output)
	}
	if cfg.Logging.ServiceName != "llmchat" {
		t.Errorf("expected service name propagated to logging, got %q", cfg.Logging.ServiceName)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Providers: []config.ProviderEntry{{Dialect: "ollama"}}}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := Config{}
	empty.ApplyDefaults()
	err := empty.Validate()
	if err == nil || !strings.Contains(err.Error(), "provider") {
		t.Errorf("expected provider requirement error, got %v", err)
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"provider", "model", "no-failover", "max-tokens", "temperature", "timeout", "system"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent flag --config")
	}
}
