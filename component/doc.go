// Package component defines the lifecycle contracts for the long-lived
// pieces of a service and a registry that drives them.
//
// Components are started in registration order and stopped in reverse, so
// dependencies register first. Health is aggregated across all registered
// components for the /health endpoint.
//
//	registry := component.NewRegistry()
//	registry.Register(sseComponent)
//	registry.Register(serverComponent)
//	if err := registry.StartAll(ctx); err != nil { ... }
//	defer registry.StopAll(ctx)
package component
