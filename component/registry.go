package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/skillsenselab/llmkit/logger"
)

// stopTimeout bounds each component's shutdown individually, so one
// hung component cannot eat the whole drain budget.
const stopTimeout = 10 * time.Second

// Registry owns the lifecycle of a set of components. StartAll walks
// them in registration order, StopAll in reverse, so later components
// may depend on earlier ones being up.
type Registry struct {
	mu      sync.RWMutex
	order   []Component
	byName  map[string]Component
	started map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Component),
		started: make(map[string]bool),
	}
}

// Register adds a component. Registration order is start order, so
// dependencies go first. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.order = append(r.order, c)
	r.byName[name] = c

	logger.Debug("component registered", logger.Fields("component", name))
	return nil
}

// StartAll starts every component in registration order, stopping at
// the first failure. Components started before the failure stay
// started; the caller is expected to StopAll on the way out.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Info("starting components", logger.Fields("count", len(r.order)))
	for _, c := range r.order {
		name := c.Name()
		if err := c.Start(ctx); err != nil {
			logger.Error("component start failed", logger.Fields("component", name, "error", err.Error()))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.started[name] = true
		logger.Debug("component started", logger.Fields("component", name))
	}
	logger.Info("all components started")
	return nil
}

// StopAll stops started components in reverse registration order.
// Every started component gets a stop attempt and its own timeout slice
// of ctx; failures are collected rather than short-circuiting, so one
// bad stop never strands the components behind it.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Info("stopping components")
	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.order[i]
		name := c.Name()
		if !r.started[name] {
			continue
		}

		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		r.started[name] = false

		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			logger.Error("component stop failed", logger.Fields("component", name, "error", err.Error()))
			continue
		}
		logger.Info("component stopped", logger.Fields("component", name))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	logger.Info("all components stopped")
	return nil
}

// HealthAll polls every component, in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.order))
	for i, c := range r.order {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the named component, or nil when absent.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, len(r.order))
	copy(out, r.order)
	return out
}
