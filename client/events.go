package client

import "time"

// EventType discriminates resilience events.
type EventType string

// Event types emitted by the client.
const (
	// EventBreakerChange fires on every circuit breaker state transition.
	EventBreakerChange EventType = "breaker_state_change"
	// EventFailover fires when the client moves past a provider to the
	// next candidate.
	EventFailover EventType = "failover"
)

// Event is a resilience occurrence worth surfacing outside the client,
// e.g. on the gateway's live event feed.
type Event struct {
	Type     EventType `json:"type"`
	Provider string    `json:"provider"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Time     time.Time `json:"time"`
}

// emit forwards an event to the configured hook, if any. The hook runs on
// the calling goroutine and must not block.
func (c *Client) emit(e Event) {
	if c.onEvent == nil {
		return
	}
	e.Time = time.Now()
	c.onEvent(e)
}
