package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/llmkit/component"
	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/server"
)

func newServer(t *testing.T, mutate func(*server.Config)) *server.Server {
	t.Helper()
	cfg := server.Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}
	return server.New(cfg, logger.NewDefault("server-test"))
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_Defaults(t *testing.T) {
	cfg := server.Config{}
	cfg.ApplyDefaults()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.MaxBodySize != "10MB" {
		t.Errorf("expected default max body size 10MB, got %s", cfg.MaxBodySize)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
	if len(cfg.Auth.SkipPaths) == 0 {
		t.Error("expected default auth skip paths")
	}

	limited := server.Config{RateLimit: server.RateLimitConfig{Enabled: true}}
	limited.ApplyDefaults()
	if limited.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("expected default 60 requests per minute, got %d", limited.RateLimit.RequestsPerMinute)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := server.Config{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}

	cfg = server.Config{Auth: server.AuthConfig{Enabled: true}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled auth without secret")
	}

	cfg = server.Config{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error for valid config: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Default endpoints and middleware stack
// ---------------------------------------------------------------------------

func TestServer_DefaultEndpoints(t *testing.T) {
	srv := newServer(t, nil)
	srv.ApplyDefaults("llmkit-test", nil)

	for _, path := range []string{"/health", "/info", "/version", "/alive", "/ready"} {
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestServer_HealthReportsComponents(t *testing.T) {
	srv := newServer(t, nil)
	checker := func(ctx context.Context) []component.Health {
		return []component.Health{
			{Name: "providers", Status: component.StatusHealthy},
			{Name: "sse", Status: component.StatusDegraded, Message: "0 clients connected"},
		}
	}
	srv.ApplyDefaults("llmkit-test", checker)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

	var body struct {
		Status     string             `json:"status"`
		Components []component.Health `json:"components"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("health response is not valid JSON: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("expected degraded status, got %s", body.Status)
	}
	if len(body.Components) != 2 {
		t.Errorf("expected 2 components, got %d", len(body.Components))
	}
}

func TestServer_RequestIDOnResponses(t *testing.T) {
	srv := newServer(t, nil)
	srv.ApplyDefaults("llmkit-test", nil)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected generated X-Request-Id on response")
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", http.NoBody)
	req.Header.Set("X-Request-Id", "test-id-123")
	srv.Handler().ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "test-id-123" {
		t.Errorf("expected X-Request-Id to be preserved, got %s", got)
	}
}

// ---------------------------------------------------------------------------
// Auth and rate limiting wiring
// ---------------------------------------------------------------------------

func TestServer_UseAuth(t *testing.T) {
	srv := newServer(t, func(cfg *server.Config) {
		cfg.Auth = server.AuthConfig{Enabled: true, Secret: "test-secret"}
		cfg.ApplyDefaults()
	})
	srv.ApplyMiddleware()
	srv.UseAuth(func(token string) (map[string]interface{}, error) {
		if token != "good" {
			return nil, fmt.Errorf("bad token")
		}
		return map[string]interface{}{"sub": "tester"}, nil
	})
	srv.RegisterDefaultEndpoints("llmkit-test", nil)
	srv.GinEngine().GET("/v1/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Skip paths stay open.
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Errorf("expected /health to skip auth, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/v1/protected", http.NoBody))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer good")
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rr.Code)
	}
}

func TestServer_RateLimitWiring(t *testing.T) {
	srv := newServer(t, func(cfg *server.Config) {
		cfg.RateLimit = server.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	})
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints("llmkit-test", nil)

	var last int
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/info", http.NoBody)
		req.RemoteAddr = "10.1.2.3:4000"
		srv.Handler().ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exceeding limit, got %d", last)
	}
}

// ---------------------------------------------------------------------------
// Component wrapper
// ---------------------------------------------------------------------------

func TestServerComponent(t *testing.T) {
	srv := newServer(t, func(cfg *server.Config) { cfg.Port = 9321 })
	comp := server.NewComponent(srv)

	if comp.Name() != "http-server" {
		t.Errorf("unexpected component name: %s", comp.Name())
	}

	health := comp.Health(context.Background())
	if health.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", health.Status)
	}

	desc := comp.Describe()
	if desc.Port != 9321 {
		t.Errorf("expected port 9321 in description, got %d", desc.Port)
	}
	if !strings.Contains(desc.Details, "9321") {
		t.Errorf("expected address in details, got %s", desc.Details)
	}

	srv.RegisterDefaultEndpoints("llmkit-test", nil)
	routes := comp.Routes()
	if len(routes) == 0 {
		t.Error("expected registered routes")
	}
}
