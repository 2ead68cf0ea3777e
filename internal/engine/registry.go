package engine

import (
	"fmt"
	"sync"

	"github.com/nimbusctl/stormengine/internal/resource"
)

// Registry is a thread-safe name -> platform stub map with a single
// coarse lock around every operation (§4.6). It retains insertion
// order so platforms() produces reproducible output.
type Registry struct {
	mu    sync.Mutex
	order []string
	stubs map[string]*Stub
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{stubs: make(map[string]*Stub)}
}

// Create builds a fresh stub bound to
// stateResource.Parent().Ref("platforms").Ref(name) as its data
// resource, without inserting it into the registry. Separating
// construction from Put supports a two-phase register where the stub
// is configured before being published (§4.8 register).
func (r *Registry) Create(name, providerName string, properties map[string]any, stateResource *resource.Resource) (*Stub, error) {
	dataRes, err := stateResource.Parent().Ref("platforms")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	dataRes, err = dataRes.Ref(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return newStub(providerName, properties, dataRes), nil
}

// Put inserts stub under name. Fails with ErrAlreadyExists if name is
// already registered.
func (r *Registry) Put(name string, stub *Stub) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stubs[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	r.stubs[name] = stub
	r.order = append(r.order, name)
	return nil
}

// Get returns the stub registered under name.
func (r *Registry) Get(name string) (*Stub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stub, ok := r.stubs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return stub, nil
}

// Remove deletes name from the registry.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stubs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(r.stubs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Items calls fn for every (name, stub) pair in insertion order, under
// the registry lock.
func (r *Registry) Items(fn func(name string, stub *Stub)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.order {
		fn(name, r.stubs[name])
	}
}

// Len returns the number of registered platforms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
