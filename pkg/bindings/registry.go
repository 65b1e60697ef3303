package bindings

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrMissingKey is returned when registering under an empty key.
	ErrMissingKey = errors.New("bindings: missing key")
	// ErrDuplicateBinding is returned when a key is already taken.
	ErrDuplicateBinding = errors.New("bindings: duplicate key")
)

// Registry maps stable identifiers to bindings. Keys are unique; a failed
// registration leaves the registry exactly as it was.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Binding
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Binding)}
}

// Register adds b under key.
func (r *Registry) Register(key string, b Binding) error {
	if key == "" {
		return ErrMissingKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.m[key]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateBinding, key)
	}
	r.m[key] = b
	return nil
}

// Get returns the binding for key, if registered.
func (r *Registry) Get(key string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.m[key]
	return b, ok
}

// ForEach calls fn for every registered binding. The iteration runs over a
// snapshot, so fn may safely call back into the registry.
func (r *Registry) ForEach(fn func(key string, b Binding)) {
	r.mu.RLock()
	type pair struct {
		k string
		b Binding
	}
	snap := make([]pair, 0, len(r.m))
	for k, b := range r.m {
		snap = append(snap, pair{k, b})
	}
	r.mu.RUnlock()
	for _, p := range snap {
		fn(p.k, p.b)
	}
}

// Len reports the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
