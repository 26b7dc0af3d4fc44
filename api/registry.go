package api

import (
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Factory produces a Walker for a target schema. Create must not mutate
// state shared with other callers.
type Factory interface {
	Create(schema *jsonschema.Schema) Walker
}

// FactoryFunc adapts a plain function to Factory.
type FactoryFunc func(schema *jsonschema.Schema) Walker

// Create implements Factory.
func (f FactoryFunc) Create(schema *jsonschema.Schema) Walker {
	return f(schema)
}

// Registry selects the Walker responsible for a node: the canonical walker
// first, then registered factories in registration order.
type Registry struct {
	canonical Walker

	mu        sync.RWMutex
	factories []Factory
}

// NewRegistry returns a registry whose fast path is canonical.
func NewRegistry(canonical Walker) *Registry {
	return &Registry{canonical: canonical}
}

// Canonical returns the walker checked before any factory.
func (r *Registry) Canonical() Walker {
	return r.canonical
}

// Register appends f to the factory list. Registration normally happens
// once at startup; it is still safe to call concurrently with Select.
func (r *Registry) Register(f Factory) {
	if f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]Factory, len(r.factories), len(r.factories)+1)
	copy(next, r.factories)
	r.factories = append(next, f)
}

// Factories returns the number of registered factories.
func (r *Registry) Factories() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Select returns the walker for n. When no walker handles n the result is
// (nil, false): the node is unsupported, which is not an error. The schema
// is handed to factories untouched and may be nil.
func (r *Registry) Select(n Node, schema *jsonschema.Schema) (Walker, bool) {
	if n == nil {
		return nil, false
	}
	if r.canonical != nil && r.canonical.Handles(n) {
		return r.canonical, true
	}

	r.mu.RLock()
	factories := r.factories
	r.mu.RUnlock()

	for _, f := range factories {
		w := f.Create(schema)
		if w != nil && w.Handles(n) {
			return w, true
		}
	}
	return nil, false
}
