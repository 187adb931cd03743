package provider

import "sync"

// Registry is an ordered collection of link providers. Registration
// order defines priority: index 0 is the highest. Entries move only by
// explicit registration and disposal, never by implicit reordering.
type Registry struct {
	mu      sync.Mutex
	entries []*Registration
}

// Registration is the disposal handle returned by Register. Disposing
// it removes that exact registration without disturbing the relative
// order of the others.
type Registration struct {
	registry *Registry
	provider Provider
	disposed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends p at the end of the ordered list, giving it the
// lowest priority among current registrants. It may be called at any
// time, including while a resolution is in flight; resolutions snapshot
// the list when they start, so a mid-flight registrant never joins a
// resolution already underway.
func (r *Registry) Register(p Provider) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg := &Registration{registry: r, provider: p}
	r.entries = append(r.entries, reg)
	return reg
}

// Snapshot returns the providers in priority order as of the call.
// The returned slice is owned by the caller.
func (r *Registry) Snapshot() []Provider {
	r.mu.Lock()
	defer r.mu.Unlock()

	providers := make([]Provider, len(r.entries))
	for i, reg := range r.entries {
		providers[i] = reg.provider
	}
	return providers
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Dispose removes the registration from its registry. Disposing twice
// is a no-op.
func (reg *Registration) Dispose() {
	if reg == nil || reg.registry == nil {
		return
	}
	r := reg.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg.disposed {
		return
	}
	reg.disposed = true
	for i, cur := range r.entries {
		if cur == reg {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
}
