// Package sse provides Server-Sent Events (SSE) infrastructure for
// real-time event delivery in llmkit services.
//
// A Hub fans broadcast data out to every connected client; ServeSSE
// attaches an HTTP request to the hub as a long-lived event stream.
// The gateway uses this to push resilience events (circuit breaker
// transitions, failovers) to dashboards and CLIs as they happen.
//
// # Usage
//
//	hub := sse.NewHub()
//	go hub.Run()
//
//	router.GET("/v1/events", func(c *gin.Context) {
//		sse.ServeSSE(hub, c.Writer, c.Request, uuid.NewString())
//	})
//
//	hub.Broadcast([]byte(`{"type":"failover","from":"openai","to":"ollama"}`))
package sse
