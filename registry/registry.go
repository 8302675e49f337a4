package registry

import (
	"fmt"
)

// Entry is one gallery shader. Entries are immutable once registered.
type Entry struct {
	Name     string
	Fragment string
	// Vertex is optional; the host supplies a fullscreen-quad vertex shader when empty.
	Vertex string
	// ResolutionScale lowers the internal render resolution for expensive shaders.
	// Must be in (0,1]; zero means 1.
	ResolutionScale float64
}

// Registry is the fixed, ordered set of shaders available to the gallery.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// New builds a registry from entries. The order of entries is the gallery order.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("shader entry %d has no name", len(r.order))
		}
		if _, exists := r.entries[e.Name]; exists {
			return nil, fmt.Errorf("duplicate shader name: %s", e.Name)
		}
		if e.ResolutionScale == 0 {
			e.ResolutionScale = 1
		}
		if !(e.ResolutionScale > 0 && e.ResolutionScale <= 1) {
			return nil, fmt.Errorf("shader %s: resolution scale %v out of range (0,1]", e.Name, e.ResolutionScale)
		}
		r.entries[e.Name] = e
		r.order = append(r.order, e.Name)
	}
	return r, nil
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) Len() int { return len(r.order) }
