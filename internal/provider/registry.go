package provider

import "sort"

// Factory constructs a provider instance.
type Factory func() Provider

// Registry maps provider ids to lazily constructed instances.
type Registry struct {
	factories map[string]Factory
	instances map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Provider),
	}
}

// Register installs a factory under an id. Re-registering an id replaces
// the factory and drops any cached instance.
func (r *Registry) Register(id string, f Factory) {
	r.factories[id] = f
	delete(r.instances, id)
}

// Get returns the provider for an id, constructing it on first use.
func (r *Registry) Get(id string) (Provider, bool) {
	if p, ok := r.instances[id]; ok {
		return p, true
	}
	f, ok := r.factories[id]
	if !ok {
		return nil, false
	}
	p := f()
	r.instances[id] = p
	return p, true
}

// IDs returns the registered provider ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether an id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.factories[id]
	return ok
}
