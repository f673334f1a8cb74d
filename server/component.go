package server

import (
	"context"

	"github.com/skillsenselab/llmkit/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*ServerComponent)(nil)
	_ component.Describable   = (*ServerComponent)(nil)
	_ component.RouteProvider = (*ServerComponent)(nil)
)

// ServerComponent adapts a Server to the component registry so the gateway
// manages it alongside its other lifecycle components.
type ServerComponent struct {
	server *Server
}

// NewComponent wraps s for registration.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

func (sc *ServerComponent) Name() string { return componentName }

// Start brings the listener up.
func (sc *ServerComponent) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop drains in-flight requests and shuts the listener down.
func (sc *ServerComponent) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports healthy once the listener exists.
func (sc *ServerComponent) Health(context.Context) component.Health {
	h := component.Health{Name: componentName, Status: component.StatusHealthy}
	if sc.server.httpServer == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "HTTP server not initialized"
	}
	return h
}

// Describe summarizes the server for the startup log.
func (sc *ServerComponent) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: cfg.Address(),
		Port:    cfg.Port,
	}
}

// Routes lists every registered route for the startup log.
func (sc *ServerComponent) Routes() []component.Route {
	ginRoutes := sc.server.engine.Routes()
	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: r.Handler,
		})
	}
	return routes
}
