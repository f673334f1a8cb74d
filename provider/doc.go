// Package provider defines the completion backend contract and the HTTP
// adapter that fulfils it for any provider with a registered dialect.
//
// The adapter works with any LLM backend (OpenAI-compatible, Ollama, etc.)
// via the Dialect pattern, much as database/sql works with driver
// packages.
//
// # Architecture
//
//   - [ChatProvider]: the contract the orchestrating client dispatches
//     against (Name, IsAvailable, Stream)
//   - [Registry]: constructed providers in registration order (order is the
//     ranking tie-break)
//   - [Dialect] interface: maps universal chat types to/from a provider's
//     HTTP format; [RegisterDialect] / [GetDialect] for config-driven
//     selection
//   - [Adapter]: composes the HTTP adapter + a Dialect into a ChatProvider
//   - [Classify]: the single place provider failures become tagged AppErrors
//
// # Usage
//
// Import a dialect driver package for side-effect registration, then create
// an adapter:
//
//	import (
//	    "github.com/skillsenselab/llmkit/provider"
//	    _ "github.com/skillsenselab/llmkit/provider/ollama"
//	)
//
//	p, err := provider.New(provider.Config{
//	    Dialect: "ollama",
//	    BaseURL: "http://localhost:11434",
//	    Model:   "qwen2.5:1.5b",
//	})
//
//	ch, err := p.Stream(ctx, chat.UserPrompt("Hello!"))
//
// Or pass a dialect directly without the global registry:
//
//	p, err := provider.NewWithDialect(myDialect, provider.Config{...})
//
// Subpackages openai, ollama, and localcmd ship ready-made providers.
package provider
