package generation

import (
	"fmt"
	"sort"
)

// Registry maps provider names to Generator backends. Backends are
// registered once at wiring time; the engine resolves its provider through
// the registry instead of dispatching on strings at runtime.
type Registry struct {
	backends map[string]Generator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Generator)}
}

// Register adds a backend under the given provider name, replacing any
// previous registration for that name.
func (r *Registry) Register(name string, backend Generator) {
	r.backends[name] = backend
}

// Lookup returns the backend registered under the given provider name.
// Returns ErrUnknownProvider if no backend is registered.
func (r *Registry) Lookup(name string) (Generator, error) {
	backend, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return backend, nil
}

// Providers returns the registered provider names in sorted order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
