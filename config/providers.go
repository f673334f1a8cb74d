package config

import (
	"fmt"
	"os"
	"time"

	"github.com/skillsenselab/llmkit/encryption"
	"github.com/skillsenselab/llmkit/provider"
)

// SecretsKeyEnv names the environment variable holding the key that
// decrypts api_key_encrypted values.
const SecretsKeyEnv = "LLMKIT_SECRETS_KEY"

// SecretsKey returns the configured secrets key, empty when unset.
func SecretsKey() string { return os.Getenv(SecretsKeyEnv) }

// ProviderEntry is one provider in the config file's providers list.
//
// API keys may be stored encrypted: set api_key_encrypted to a
// ChaCha20-Poly1305 value produced with the encryption package and export
// the key via LLMKIT_SECRETS_KEY. Plain api_key wins when both are
// present.
type ProviderEntry struct {
	// Name identifies the instance; defaults to the dialect name.
	Name string `yaml:"name" json:"name" mapstructure:"name"`
	// Dialect selects the wire mapping, e.g. "ollama" or "openai".
	Dialect string `yaml:"dialect" json:"dialect" mapstructure:"dialect" validate:"required"`
	// BaseURL overrides the dialect's default endpoint.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	// Model is the default model for this provider.
	Model string `yaml:"model" json:"model" mapstructure:"model"`
	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" json:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	// MaxTokens caps response length. 0 keeps the provider default.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
	// Timeout bounds non-streaming requests.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// Binary is the executable to spawn for the localcmd dialect. Required
	// there, ignored by the HTTP dialects.
	Binary string `yaml:"binary" json:"binary,omitempty" mapstructure:"binary"`
	// Args are extra arguments passed to the binary.
	Args []string `yaml:"args" json:"args,omitempty" mapstructure:"args"`

	APIKey          string `yaml:"api_key" json:"-" mapstructure:"api_key"`
	APIKeyEncrypted string `yaml:"api_key_encrypted" json:"-" mapstructure:"api_key_encrypted"`
}

// ProviderConfig converts the entry into the adapter's runtime config.
// Call DecryptAPIKeys first when entries may carry encrypted keys.
func (e ProviderEntry) ProviderConfig() provider.Config {
	return provider.Config{
		Name:        e.Name,
		Dialect:     e.Dialect,
		BaseURL:     e.BaseURL,
		Model:       e.Model,
		Temperature: e.Temperature,
		MaxTokens:   e.MaxTokens,
		Timeout:     e.Timeout,
		APIKey:      e.APIKey,
	}
}

// DecryptAPIKeys fills each entry's APIKey from APIKeyEncrypted in place.
// Entries with a plain APIKey keep it. A missing secrets key is only an
// error when some entry actually needs decrypting.
func DecryptAPIKeys(entries []ProviderEntry, secretsKey string) error {
	var enc encryption.Encryptor
	for i := range entries {
		e := &entries[i]
		if e.APIKey != "" || e.APIKeyEncrypted == "" {
			continue
		}
		if secretsKey == "" {
			return fmt.Errorf("config: provider %q has api_key_encrypted but %s is not set", e.displayName(), SecretsKeyEnv)
		}
		if enc == nil {
			var err error
			enc, err = encryption.New(secretsKey, encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
			if err != nil {
				return fmt.Errorf("config: secrets key: %w", err)
			}
		}
		plain, err := enc.Decrypt(e.APIKeyEncrypted)
		if err != nil {
			return fmt.Errorf("config: decrypt api key for provider %q: %w", e.displayName(), err)
		}
		e.APIKey = plain
	}
	return nil
}

func (e *ProviderEntry) displayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Dialect
}
