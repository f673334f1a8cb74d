// Package server provides the HTTP server for llmkit services, built on Gin
// and served over h2c so completion streams can ride cleartext HTTP/2.
//
// The server participates in llmkit's component lifecycle and ships with a
// standard middleware chain and operational endpoints.
//
// # Middleware
//
// The chain applied by ApplyMiddleware, outermost first:
//
//   - Recovery: turns handler panics into 500s with a logged stack
//   - RequestID: generates or propagates X-Request-Id
//   - CORS: cross-origin policy from configuration
//   - BodySizeLimit: caps request bodies (optional)
//   - RequestLogger: per-request structured log line
//
// Bearer-token auth (UseAuth) and per-client rate limiting attach to the
// Gin engine when enabled.
//
// # Endpoints
//
// RegisterDefaultEndpoints mounts the operational routes:
//
//   - /health: aggregate component health
//   - /info: build identity plus uptime
//   - /metrics: runtime memory and goroutine counts
//   - /version: build identity
//   - /alive: Kubernetes liveness probe
//   - /ready: Kubernetes readiness probe
package server
