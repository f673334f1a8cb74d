package component

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// probe is a scriptable Component that appends its name to a shared
// journal on every lifecycle call.
type probe struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	journal  *[]string
}

func (p *probe) log(event string) {
	if p.journal != nil {
		*p.journal = append(*p.journal, event+":"+p.name)
	}
}

func (p *probe) Name() string { return p.name }

func (p *probe) Start(context.Context) error {
	p.log("start")
	return p.startErr
}

func (p *probe) Stop(context.Context) error {
	p.log("stop")
	return p.stopErr
}

func (p *probe) Health(context.Context) Health { return p.health }

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&probe{name: "sse-hub"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(&probe{name: "sse-hub"}); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&probe{name: "http-server"})

	if got := r.Get("http-server"); got == nil || got.Name() != "http-server" {
		t.Errorf("Get returned %v", got)
	}
	if got := r.Get("no-such-component"); got != nil {
		t.Errorf("expected nil for unknown name, got %v", got)
	}
}

func TestLifecycleOrdering(t *testing.T) {
	var journal []string
	r := NewRegistry()
	for _, name := range []string{"providers", "sse-hub", "http-server"} {
		if err := r.Register(&probe{name: name, journal: &journal}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{
		"start:providers", "start:sse-hub", "start:http-server",
		"stop:http-server", "stop:sse-hub", "stop:providers",
	}
	if len(journal) != len(want) {
		t.Fatalf("journal %v, want %v", journal, want)
	}
	for i := range want {
		if journal[i] != want[i] {
			t.Fatalf("journal %v, want %v", journal, want)
		}
	}
}

func TestStartAllStopsAtFirstFailure(t *testing.T) {
	var journal []string
	r := NewRegistry()
	r.Register(&probe{name: "providers", journal: &journal})
	r.Register(&probe{name: "http-server", journal: &journal, startErr: errors.New("bind: address in use")})
	r.Register(&probe{name: "sse-hub", journal: &journal})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Fatal("expected StartAll to fail")
	}
	if !strings.Contains(err.Error(), "http-server") {
		t.Errorf("error should name the failing component, got %v", err)
	}
	for _, event := range journal {
		if event == "start:sse-hub" {
			t.Error("components after the failure must not start")
		}
	}

	// The survivors of the partial start still stop; the failed and the
	// never-started ones do not.
	journal = journal[:0]
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll after partial start: %v", err)
	}
	if len(journal) != 1 || journal[0] != "stop:providers" {
		t.Errorf("expected only providers to stop, got %v", journal)
	}
}

func TestStopAllNoopWhenNothingStarted(t *testing.T) {
	var journal []string
	r := NewRegistry()
	r.Register(&probe{name: "sse-hub", journal: &journal})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if len(journal) != 0 {
		t.Errorf("unstarted component must not be stopped, journal %v", journal)
	}
}

func TestStopAllCollectsFailures(t *testing.T) {
	var journal []string
	r := NewRegistry()
	r.Register(&probe{name: "providers", journal: &journal})
	r.Register(&probe{name: "http-server", journal: &journal, stopErr: errors.New("listener already closed")})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected StopAll to report the failure")
	}
	if !strings.Contains(err.Error(), "http-server") {
		t.Errorf("error should name the failing component, got %v", err)
	}
	// A failing stop must not block the remaining components.
	found := false
	for _, event := range journal {
		if event == "stop:providers" {
			found = true
		}
	}
	if !found {
		t.Errorf("providers should still stop after http-server failed, journal %v", journal)
	}
}

func TestHealthAllPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&probe{name: "sse-hub", health: Health{
		Name: "sse-hub", Status: StatusHealthy, Message: "2 clients connected",
	}})
	r.Register(&probe{name: "providers", health: Health{
		Name: "providers", Status: StatusDegraded, Message: "1/2 providers available",
	}})
	r.Register(&probe{name: "http-server", health: Health{
		Name: "http-server", Status: StatusUnhealthy, Message: "not initialized",
	}})

	got := r.HealthAll(context.Background())
	if len(got) != 3 {
		t.Fatalf("expected 3 health entries, got %d", len(got))
	}
	wantStatus := []HealthStatus{StatusHealthy, StatusDegraded, StatusUnhealthy}
	for i, h := range got {
		if h.Status != wantStatus[i] {
			t.Errorf("entry %d: status %s, want %s", i, h.Status, wantStatus[i])
		}
	}
}

func TestStatusValues(t *testing.T) {
	pairs := map[HealthStatus]string{
		StatusHealthy:   "healthy",
		StatusDegraded:  "degraded",
		StatusUnhealthy: "unhealthy",
	}
	for status, want := range pairs {
		if string(status) != want {
			t.Errorf("status %q, want %q", status, want)
		}
	}
}
