package config

import (
	"fmt"

	"github.com/skillsenselab/llmkit/provider"
	"github.com/skillsenselab/llmkit/provider/localcmd"
	"github.com/skillsenselab/llmkit/provider/ollama"
	"github.com/skillsenselab/llmkit/provider/openai"
	"github.com/skillsenselab/llmkit/util"
	"github.com/skillsenselab/llmkit/validation"
)

// ValidateProviders rejects entry lists BuildRegistry cannot turn into a
// working registry: an empty list, invalid entries, a localcmd entry with
// no binary, or two entries resolving to the same registered name.
func ValidateProviders(entries []ProviderEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("config: at least one provider is required")
	}
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if err := validation.Validate(entry); err != nil {
			return fmt.Errorf("config: providers[%d]: %w", i, err)
		}
		if entry.Dialect == localcmd.Name && entry.Binary == "" {
			return fmt.Errorf("config: providers[%d]: binary is required for the localcmd dialect", i)
		}
		// Registered names must be unique; an unnamed entry takes its dialect.
		name := util.Coalesce(entry.Name, entry.Dialect)
		if seen[name] {
			return fmt.Errorf("config: providers[%d]: duplicate provider name %q", i, name)
		}
		seen[name] = true
	}
	return nil
}

// BuildRegistry constructs one provider per entry and registers them in
// declaration order. Call DecryptAPIKeys first when entries carry
// encrypted keys.
func BuildRegistry(entries []ProviderEntry) (*provider.Registry, error) {
	registry := provider.NewRegistry()
	for _, entry := range entries {
		p, err := BuildProvider(entry)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// BuildProvider picks the adapter for one entry. The localcmd dialect
// spawns a process per request; the known HTTP dialects go through their
// constructors so endpoint and model defaults apply.
func BuildProvider(entry ProviderEntry) (provider.ChatProvider, error) {
	switch entry.Dialect {
	case localcmd.Name:
		return localcmd.New(localcmd.Config{
			Name:    entry.Name,
			Binary:  entry.Binary,
			Args:    entry.Args,
			Model:   entry.Model,
			Timeout: entry.Timeout,
		})
	case ollama.Name:
		return ollama.New(entry.ProviderConfig())
	case openai.Name:
		return openai.New(entry.ProviderConfig())
	default:
		// Anything else must have registered its dialect on import.
		return provider.New(entry.ProviderConfig())
	}
}
