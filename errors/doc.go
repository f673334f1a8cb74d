// Package errors provides the structured error type the rest of llmkit
// builds on. Every error carries a stable code, an HTTP status for the
// gateway, and a retryable flag the failover loop consults when deciding
// whether a provider deserves another attempt.
package errors
