package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/skillsenselab/llmkit/component"
)

// Component runs a Hub under the component registry's lifecycle: Start
// launches the hub loop, Stop shuts it down and waits for it to drain.
type Component struct {
	hub  *Hub
	path string
	wg   sync.WaitGroup
	mu   sync.Mutex
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the component with a fresh Hub. The path is the
// route the gateway mounts the event stream on, reported via Describe.
func NewComponent(path string) *Component {
	return &Component{hub: NewHub(), path: path}
}

// Hub exposes the underlying hub for broadcasting and connection handling.
func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "sse" }

// Start runs the hub loop in a background goroutine.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop closes every client and waits for the hub loop to return.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hub.Stop()
	c.wg.Wait()
	return nil
}

// Health reports the hub as healthy with its current connection count.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}

// Describe summarizes the component for the startup log.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "SSE Hub",
		Type:    "sse",
		Details: fmt.Sprintf("Path: %s", c.path),
	}
}
