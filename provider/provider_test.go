package provider

import (
	"context"
	"testing"

	"github.com/skillsenselab/llmkit/chat"
)

// fakeProvider is a scripted in-memory ChatProvider.
type fakeProvider struct {
	name      string
	available bool
	chunks    []chat.Chunk
	streamErr error
	closed    bool
}

func (f *fakeProvider) Name() string                     { return f.name }
func (f *fakeProvider) IsAvailable(context.Context) bool { return f.available }

func (f *fakeProvider) Stream(_ context.Context, _ chat.Request) (<-chan chat.Chunk, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	ch := make(chan chat.Chunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (f *fakeProvider) Close(context.Context) error {
	f.closed = true
	return nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &fakeProvider{name: "alpha"}

	if err := r.Register(p); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, ok := r.Get("alpha")
	if !ok {
		t.Fatal("Get() did not find registered provider")
	}
	if got.Name() != "alpha" {
		t.Errorf("Name() = %q, want %q", got.Name(), "alpha")
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get() found an unregistered provider")
	}
}

func TestRegistry_RegisterNil(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Error("expected error registering nil provider")
	}
}

func TestRegistry_RegisterEmptyName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeProvider{name: ""}); err == nil {
		t.Error("expected error registering provider with empty name")
	}
}

func TestRegistry_NamesPreserveOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(&fakeProvider{name: name}); err != nil {
			t.Fatalf("Register(%s) error: %v", name, err)
		}
	}

	names := r.Names()
	want := []string{"zeta", "alpha", "mid"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestRegistry_ReRegisterKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "a"})
	r.Register(&fakeProvider{name: "b"})

	replacement := &fakeProvider{name: "a", available: true}
	if err := r.Register(replacement); err != nil {
		t.Fatalf("re-Register error: %v", err)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
	got, _ := r.Get("a")
	if !got.IsAvailable(context.Background()) {
		t.Error("Get() returned the old instance after re-registration")
	}
}

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "one"})
	r.Register(&fakeProvider{name: "two"})

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d providers, want 2", len(all))
	}
	if all[0].Name() != "one" || all[1].Name() != "two" {
		t.Errorf("All() order = [%s %s], want [one two]", all[0].Name(), all[1].Name())
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()
	a := &fakeProvider{name: "a"}
	b := &fakeProvider{name: "b"}
	r.Register(a)
	r.Register(b)

	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !a.closed || !b.closed {
		t.Errorf("Close() did not reach all providers: a=%v b=%v", a.closed, b.closed)
	}
}
