package httpclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skillsenselab/llmkit/security"
	"github.com/skillsenselab/llmkit/security/tlstest"
)

func newPrivateCAServer(t *testing.T, certs *tlstest.TLSCerts) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{certs.ServerTLS}}
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

func TestAdapterTrustsConfiguredCA(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := newPrivateCAServer(t, certs)

	a, err := New(Config{
		BaseURL: srv.URL,
		TLS:     &security.TLSConfig{CAFile: certs.CAFile},
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := Get[map[string]string](a, context.Background(), "/api/tags")
	if err != nil {
		t.Fatalf("Get over TLS: %v", err)
	}
	if resp.Data["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp.Data["status"])
	}
}

func TestAdapterRejectsUnknownCA(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := newPrivateCAServer(t, certs)

	a, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Get[map[string]string](a, context.Background(), "/api/tags"); err == nil {
		t.Fatal("expected certificate verification to fail without the private CA")
	}
}
