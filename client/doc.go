// Package client orchestrates chat completions across multiple providers
// with failover, retries, circuit breaking, and shared rate limiting.
//
// A [Client] is built over a [provider.Registry] and routes each request
// through an ordered candidate list: the hinted provider first, or every
// provider ranked by observed success rate when the hint is "auto". Each
// candidate is guarded by its own circuit breaker, admission to the
// shared rate-limit window, and a bounded retry loop with jittered
// exponential backoff. When a candidate is exhausted the client fails
// over to the next and finally reports ALL_PROVIDERS_EXHAUSTED.
//
//	reg := provider.NewRegistry()
//	reg.Register(ollama.New(cfg))
//
//	c, err := client.New(reg, client.Config{MaxRetries: 2})
//	if err != nil {
//	    return err
//	}
//	ch, err := c.StreamChat(ctx, chat.Request{Messages: msgs})
//	if err != nil {
//	    return err // invalid request or unknown provider hint
//	}
//	for chunk := range ch {
//	    ...
//	}
//
// [Client.Generate] wraps StreamChat and collects the stream into a
// single string for callers that do not need incremental output.
//
// The client never retracts delivered output. When an attempt dies
// mid-stream, the retry or the next provider replays the response from
// the start, so consumers can see a duplicated prefix around a failure.
// Generate shares this caveat: it concatenates everything delivered.
// Providers fail far more often before the first token than mid-stream,
// so in practice the prefix is empty.
package client
