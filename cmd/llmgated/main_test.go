package main

import (
	"strings"
	"testing"

	"github.com/skillsenselab/llmkit/config"
)

func validConfig() Config {
	cfg := Config{
		Providers: []config.ProviderEntry{
			{Name: "ollama", Dialect: "ollama", BaseURL: "http://localhost:11434"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Name != "llmgated" {
		t.Errorf("expected default name llmgated, got %q", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Logging.ServiceName != "llmgated" {
		t.Errorf("expected service name propagated to logging, got %q", cfg.Logging.ServiceName)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := Config{}
	empty.ApplyDefaults()
	if err := empty.Validate(); err == nil {
		t.Error("expected error with no providers")
	}

	noDialect := validConfig()
	noDialect.Providers = []config.ProviderEntry{{Name: "x"}}
	if err := noDialect.Validate(); err == nil {
		t.Error("expected error for entry without dialect")
	}

	localNoBinary := validConfig()
	localNoBinary.Providers = []config.ProviderEntry{{Name: "llamacpp", Dialect: "localcmd"}}
	err := localNoBinary.Validate()
	if err == nil || !strings.Contains(err.Error(), "binary") {
		t.Errorf("expected binary requirement error, got %v", err)
	}
}

func TestConfig_DuplicateProviderName(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = []config.ProviderEntry{
		{Name: "ollama", Dialect: "ollama"},
		{Name: "ollama", Dialect: "ollama"},
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate name error, got %v", err)
	}
}
