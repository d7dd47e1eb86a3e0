package ecs

// EntityView is a read-only handle onto a family's cached entity array.
// It always reflects the family's current membership — it is not a
// snapshot — so callers that hold onto a view across mutations see
// additions and removals as they happen.
type EntityView struct {
	entry *familyEntry
}

// Len returns the number of entities currently in the view.
func (v *EntityView) Len() int {
	if v.entry == nil {
		return 0
	}
	return len(v.entry.entities)
}

// At returns the entity at position i (0 <= i < Len()).
func (v *EntityView) At(i int) *Entity {
	return v.entry.entities[i]
}

// ForEach calls fn for every entity currently in the view, in array
// order. fn must not mutate the view's family membership; schedule such
// mutations through the Engine instead.
func (v *EntityView) ForEach(fn func(*Entity)) {
	if v.entry == nil {
		return
	}
	for _, e := range v.entry.entities {
		fn(e)
	}
}

// Snapshot copies the view's current contents into an independent slice.
func (v *EntityView) Snapshot() []*Entity {
	if v.entry == nil {
		return nil
	}
	out := make([]*Entity, len(v.entry.entities))
	copy(out, v.entry.entities)
	return out
}
