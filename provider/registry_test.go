package provider

import (
	"testing"

	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/link"
)

// namedProvider gives each test provider an identity to track order.
type namedProvider struct {
	name string
}

func (p *namedProvider) ProvideLink(_ grid.CellPosition, reply func(*link.Link)) {
	reply(nil)
}

func names(providers []Provider) []string {
	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.(*namedProvider).name
	}
	return out
}

func TestRegisterOrderIsPriority(t *testing.T) {
	r := NewRegistry()
	r.Register(&namedProvider{name: "a"})
	r.Register(&namedProvider{name: "b"})
	r.Register(&namedProvider{name: "c"})

	got := names(r.Snapshot())
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot() = %v, want %v", got, want)
		}
	}
}

func TestDisposeRemovesExactEntry(t *testing.T) {
	r := NewRegistry()
	// The same provider instance registered twice: disposing one handle
	// must remove only that registration.
	p := &namedProvider{name: "dup"}
	first := r.Register(p)
	r.Register(&namedProvider{name: "mid"})
	r.Register(p)

	first.Dispose()

	got := names(r.Snapshot())
	want := []string{"mid", "dup"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	reg := r.Register(&namedProvider{name: "a"})
	r.Register(&namedProvider{name: "b"})

	reg.Dispose()
	reg.Dispose()

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	r := NewRegistry()
	r.Register(&namedProvider{name: "a"})

	snap := r.Snapshot()
	r.Register(&namedProvider{name: "b"})

	if len(snap) != 1 {
		t.Errorf("snapshot grew after registration: %v", names(snap))
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestFuncAdapter(t *testing.T) {
	called := false
	p := Func(func(pos grid.CellPosition, reply func(*link.Link)) {
		called = true
		reply(nil)
	})

	p.ProvideLink(grid.CellPosition{X: 1, Y: 1}, func(*link.Link) {})

	if !called {
		t.Error("Func adapter did not invoke the wrapped function")
	}
}
