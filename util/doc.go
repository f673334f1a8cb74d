// Package util holds the small helpers the rest of llmkit shares:
// size-string parsing for request limits, secret masking for logs, and
// value coalescing for configuration fallbacks.
package util
