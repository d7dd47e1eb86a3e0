package ecs

import (
	"sort"

	"ecscore/ecs/bitset"
)

// Entity holds an identity, a component map, and the bitsets the family
// index and deferral protocol depend on.
//
// componentBits always equals the key set of components (invariant
// maintained by every mutator below). familyBits[f] is set exactly while
// the entity appears in family f's cached array — FamilyManager is the
// only writer of familyBits.
type Entity struct {
	id EntityID

	components    map[ComponentType]any
	componentBits bitset.Bitset
	familyBits    bitset.Bitset

	scheduledForRemoval bool
	removing            bool

	componentAdded   signal[ComponentType]
	componentRemoved signal[ComponentType]

	// handler is the non-owning back-reference an entity uses to decide
	// whether a component mutation must be deferred. It is attached when
	// the entity joins an Engine's EntityManager and cleared on removal;
	// entities never hold a reference to the Engine itself.
	handler *ComponentOperationHandler
}

// NewEntity creates a detached entity (id 0, not owned by any engine).
func NewEntity() *Entity {
	return &Entity{components: make(map[ComponentType]any)}
}

// ID returns the entity's current id; 0 means detached.
func (e *Entity) ID() EntityID { return e.id }

// ComponentBits returns the current component-presence bitset.
func (e *Entity) ComponentBits() bitset.Bitset { return e.componentBits }

// FamilyBits returns the current family-membership bitset.
func (e *Entity) FamilyBits() bitset.Bitset { return e.familyBits }

// IsRemoving reports whether this entity is inside its removal
// notification window.
func (e *Entity) IsRemoving() bool { return e.removing }

func (e *Entity) attach(h *ComponentOperationHandler) { e.handler = h }
func (e *Entity) detach()                             { e.handler = nil }

// Add installs component at typeIndex, deferring the mutation through the
// attached ComponentOperationHandler when deferral is currently required.
func (e *Entity) Add(typeIndex ComponentType, component any) {
	if e.handler != nil && e.handler.shouldDefer() {
		e.handler.enqueueAdd(e, typeIndex, component)
		return
	}
	e.applyAdd(typeIndex, component)
}

// applyAdd installs the component immediately. componentBits and the
// component map are updated before componentAdded fires, per the
// invariant that signals observe only post-mutation state.
func (e *Entity) applyAdd(typeIndex ComponentType, component any) {
	if e.components == nil {
		e.components = make(map[ComponentType]any)
	}
	e.components[typeIndex] = component
	e.componentBits = e.componentBits.Set(int(typeIndex))
	e.componentAdded.emit(typeIndex)
}

// Remove uninstalls the component at typeIndex, or is a no-op if absent.
// It defers the same way Add does.
func (e *Entity) Remove(typeIndex ComponentType) {
	if e.handler != nil && e.handler.shouldDefer() {
		e.handler.enqueueRemove(e, typeIndex)
		return
	}
	e.applyRemove(typeIndex)
}

func (e *Entity) applyRemove(typeIndex ComponentType) {
	if _, ok := e.components[typeIndex]; !ok {
		return
	}
	delete(e.components, typeIndex)
	e.componentBits = e.componentBits.Clear(int(typeIndex))
	e.componentRemoved.emit(typeIndex)
}

// RemoveAll removes every component currently present, each one routed
// through Remove (and so through the same deferral decision), in
// ascending type-index order for reproducibility.
func (e *Entity) RemoveAll() {
	present := make([]ComponentType, 0, len(e.components))
	for t := range e.components {
		present = append(present, t)
	}
	sort.Slice(present, func(i, j int) bool { return present[i] < present[j] })
	for _, t := range present {
		e.Remove(t)
	}
}

// Get returns the component at typeIndex, if present.
func (e *Entity) Get(typeIndex ComponentType) (any, bool) {
	c, ok := e.components[typeIndex]
	return c, ok
}

// Has reports whether typeIndex is present.
func (e *Entity) Has(typeIndex ComponentType) bool {
	return e.componentBits.Has(int(typeIndex))
}

// HasAny reports whether the entity has at least one of the component
// types set in bits.
func (e *Entity) HasAny(bits bitset.Bitset) bool {
	return e.componentBits.Intersects(bits)
}

// HasAll reports whether the entity has every component type set in bits.
func (e *Entity) HasAll(bits bitset.Bitset) bool {
	return e.componentBits.ContainsAll(bits)
}

// Components returns an unmodifiable snapshot of the current component
// map.
func (e *Entity) Components() map[ComponentType]any {
	out := make(map[ComponentType]any, len(e.components))
	for k, v := range e.components {
		out[k] = v
	}
	return out
}

func (e *Entity) onComponentAdded(fn func(ComponentType))   { e.componentAdded.connect(fn) }
func (e *Entity) onComponentRemoved(fn func(ComponentType)) { e.componentRemoved.connect(fn) }

// setFamilyBit and clearFamilyBit are written only by FamilyManager, the
// sole owner of familyBits.
func (e *Entity) setFamilyBit(i int)   { e.familyBits = e.familyBits.Set(i) }
func (e *Entity) clearFamilyBit(i int) { e.familyBits = e.familyBits.Clear(i) }
