package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillsenselab/llmkit/component"
	"github.com/skillsenselab/llmkit/provider"
)

// providerComponent folds the provider registry into the component
// lifecycle: health probes each provider and Stop closes their transports.
type providerComponent struct {
	registry *provider.Registry
}

var (
	_ component.Component   = (*providerComponent)(nil)
	_ component.Describable = (*providerComponent)(nil)
)

func newProviderComponent(registry *provider.Registry) *providerComponent {
	return &providerComponent{registry: registry}
}

func (pc *providerComponent) Name() string { return "providers" }

func (pc *providerComponent) Start(_ context.Context) error { return nil }

func (pc *providerComponent) Stop(ctx context.Context) error {
	return pc.registry.Close(ctx)
}

// Health probes provider availability. All reachable is healthy, some is
// degraded, none is unhealthy.
func (pc *providerComponent) Health(ctx context.Context) component.Health {
	available := 0
	for _, p := range pc.registry.All() {
		if p.IsAvailable(ctx) {
			available++
		}
	}
	total := pc.registry.Len()

	status := component.StatusHealthy
	switch {
	case available == 0:
		status = component.StatusUnhealthy
	case available < total:
		status = component.StatusDegraded
	}
	return component.Health{
		Name:    pc.Name(),
		Status:  status,
		Message: fmt.Sprintf("%d/%d providers available", available, total),
	}
}

func (pc *providerComponent) Describe() component.Description {
	return component.Description{
		Name:    "Providers",
		Type:    "llm",
		Details: strings.Join(pc.registry.Names(), ", "),
	}
}
