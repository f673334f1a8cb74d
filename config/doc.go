// Package config loads configuration for llmkit binaries from YAML files,
// the process environment, and .env files.
//
// [LoadConfig] searches the conventional locations for a config.yml and a
// .env file (or takes explicit paths), layers environment variables over
// the file values, and unmarshals into the caller's struct. Environment
// keys bind automatically under every plausible nesting, so
// CLIENT_MAX_RETRIES overrides client.max_retries without declaring keys
// up front.
//
// [ServiceConfig] is the base block binaries embed; [ProviderEntry]
// describes one LLM provider, with API keys storable encrypted via
// [DecryptAPIKeys] and the LLMKIT_SECRETS_KEY environment variable.
package config
