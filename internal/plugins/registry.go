package plugins

import "sync"

// Registry tracks named PoseSources. Unlike the package-level
// registry this is grounded on, it is an instance: a framegraphd
// process can own more than one registry (for instance, one per
// admin API instance under test) without clobbering global state.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]PoseSource
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]PoseSource)}
}

// Register adds or replaces the source named src.Name().
func (r *Registry) Register(src PoseSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.Name()] = src
}

// Unregister removes the named source, if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, name)
}

// All returns a snapshot of the currently registered sources.
func (r *Registry) All() []PoseSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PoseSource, 0, len(r.sources))
	for _, src := range r.sources {
		out = append(out, src)
	}
	return out
}

// Get looks up a source by name.
func (r *Registry) Get(name string) (PoseSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	return src, ok
}
