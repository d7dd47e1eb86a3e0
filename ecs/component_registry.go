package ecs

import (
	"reflect"
	"sync"
)

// ComponentTypeRegistry assigns a stable small-integer index to each
// distinct component Go type on first query, expanding as a side effect.
// Assignment is monotonic and dense starting at 0, and stable for the
// lifetime of the registry.
type ComponentTypeRegistry struct {
	mu      sync.Mutex
	indices map[reflect.Type]ComponentType
	next    ComponentType
}

// NewComponentTypeRegistry creates an empty registry.
func NewComponentTypeRegistry() *ComponentTypeRegistry {
	return &ComponentTypeRegistry{
		indices: make(map[reflect.Type]ComponentType),
	}
}

// IndexOf returns the stable index for component's concrete type,
// assigning the next free index if this is the first time the type has
// been seen. Lookup is total: every type receives an index.
func (r *ComponentTypeRegistry) IndexOf(component any) ComponentType {
	return r.indexOfType(reflect.TypeOf(component))
}

func (r *ComponentTypeRegistry) indexOfType(t reflect.Type) ComponentType {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.indices[t]; ok {
		return idx
	}

	idx := r.next
	r.indices[t] = idx
	r.next++
	return idx
}

// Count returns the number of distinct component types registered so far.
func (r *ComponentTypeRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.next)
}
