package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/server/endpoint"
	"github.com/skillsenselab/llmkit/server/middleware"
)

// Server is an HTTP server backed by Gin, served over h2c so clients that
// speak cleartext HTTP/2 can multiplex long-lived completion streams.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
}

// New builds a Server around a bare Gin engine. Nothing is wired yet:
// callers add middleware and routes, or use ApplyDefaults for the
// standard setup.
func New(cfg Config, log *logger.Logger) *Server {
	// Gin mode follows the global zerolog level.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      h2c.NewHandler(engine, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		config:     cfg,
		log:        log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the fully wrapped root handler. Useful for tests that
// drive the server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the listen address and serves in a background goroutine.
// By the time it returns the port is accepting connections.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server error", logger.Fields("error", err.Error()))
		}
	}()

	s.log.Info("http server listening", logger.Fields("addr", s.httpServer.Addr))
	return nil
}

// Stop drains in-flight requests and shuts the server down, giving up
// after five seconds.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("http server shutdown error", logger.Fields("error", err.Error()))
		return fmt.Errorf("shutdown: %w", err)
	}

	s.log.Info("http server stopped")
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ApplyMiddleware wraps the root handler with the standard stack: recovery,
// request-ID, CORS, body-size limit, and request logging. When rate limiting
// is enabled it is attached to the Gin engine, so call this before
// registering routes.
func (s *Server) ApplyMiddleware() {
	mws := []middleware.Middleware{
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
	}
	if s.config.MaxBodySize != "" {
		mws = append(mws, middleware.BodySizeLimit(s.config.MaxBodySize))
	}
	mws = append(mws, middleware.RequestLogger(s.log))

	s.httpServer.Handler = middleware.Chain(mws...)(s.httpServer.Handler)

	if s.config.RateLimit.Enabled {
		s.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: s.config.RateLimit.RequestsPerMinute,
		}))
	}
}

// UseAuth attaches bearer-token authentication to the Gin engine using the
// configured skip paths. The validator is supplied by the caller; the server
// kit does not know how tokens are minted. Call before registering routes.
func (s *Server) UseAuth(validator func(token string) (map[string]interface{}, error)) {
	s.engine.Use(middleware.Auth(middleware.AuthConfig{
		TokenValidator: validator,
		SkipPaths:      s.config.Auth.SkipPaths,
	}))
}

// RegisterDefaultEndpoints registers the standard operational endpoints:
// /health, /info, /metrics, /version, /alive, and /ready.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName))
	s.engine.GET("/metrics", endpoint.Metrics())
	s.engine.GET("/version", endpoint.Version())
	s.engine.GET("/alive", endpoint.Liveness(serviceName))
	s.engine.GET("/ready", endpoint.Readiness(serviceName, checker))
}

// ApplyDefaults is the one-call setup: standard middleware plus the
// operational endpoints.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker) {
	s.ApplyMiddleware()
	s.RegisterDefaultEndpoints(serviceName, checker)
}
