// Package httpclient is the HTTP transport under the provider adapters.
// It layers authentication, TLS, retry, circuit breaking, and rate
// limiting over net/http, and supports the streaming responses chat
// completions arrive on.
//
// The Adapter owns protocol concerns. Typed helpers (Get, Post, Delete)
// decode JSON responses, and DoStream hands back a streaming body with
// SSE handled by the sse subpackage.
//
// # Basic Usage
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:11434",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/api/tags",
//	})
//
// # With Resilience
//
//	cb := resilience.DefaultCircuitBreakerConfig("openai")
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.openai.com",
//	    Auth:           httpclient.BearerAuth(apiKey),
//	    Retry:          httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: &cb,
//	})
package httpclient
