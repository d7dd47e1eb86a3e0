package ecs

// FamilyListener receives family-scoped membership transitions. Both
// callbacks fire only after the entity's component map and bitsets
// already reflect the final state of the transition.
type FamilyListener interface {
	EntityAdded(entity *Entity)
	EntityRemoved(entity *Entity)
}

// familyEntry is a FamilyManager's per-family runtime state: the ordered
// cached array and the priority-sorted listener bindings.
type familyEntry struct {
	family    *Family
	entities  []*Entity
	listeners []listenerBinding
	nextSeq   int
}

type listenerBinding struct {
	priority Priority
	seq      int
	listener FamilyListener
}

// FamilyManager maintains cached entity arrays per family and dispatches
// family-scoped listeners in priority order as membership changes.
type FamilyManager struct {
	entries        []*familyEntry // indexed by FamilyIndex; nil until a family is first used with this manager
	masterEntities func() []*Entity
	notifyDepth    int
}

// NewFamilyManager creates a FamilyManager that backfills new families by
// scanning master() in master insertion order.
func NewFamilyManager(master func() []*Entity) *FamilyManager {
	return &FamilyManager{masterEntities: master}
}

func (fm *FamilyManager) entryFor(f *Family) *familyEntry {
	idx := int(f.Index())
	if idx < len(fm.entries) && fm.entries[idx] != nil {
		return fm.entries[idx]
	}

	entry := &familyEntry{family: f}
	for _, e := range fm.masterEntities() {
		if f.Matches(e) {
			entry.entities = append(entry.entities, e)
			e.setFamilyBit(idx)
		}
	}

	if idx >= len(fm.entries) {
		grown := make([]*familyEntry, idx+1)
		copy(grown, fm.entries)
		fm.entries = grown
	}
	fm.entries[idx] = entry
	return entry
}

// GetEntitiesFor returns a live view of family's cached array, allocating
// and backfilling the entry on first use.
func (fm *FamilyManager) GetEntitiesFor(f *Family) *EntityView {
	return &EntityView{entry: fm.entryFor(f)}
}

// AddEntityListener registers listener for family's membership
// transitions at the given priority. Listeners at the same priority fire
// in registration order.
func (fm *FamilyManager) AddEntityListener(f *Family, priority Priority, listener FamilyListener) {
	entry := fm.entryFor(f)
	entry.listeners = append(entry.listeners, listenerBinding{
		priority: priority,
		seq:      entry.nextSeq,
		listener: listener,
	})
	entry.nextSeq++
	stableSortByPriority(entry.listeners)
}

// RemoveEntityListener removes listener from every family it was
// registered against. Removing a listener during its own dispatch is
// safe: the dispatch in progress continues over the snapshot it took at
// entry, and only later transitions see the removal.
func (fm *FamilyManager) RemoveEntityListener(listener FamilyListener) {
	for _, entry := range fm.entries {
		if entry == nil {
			continue
		}
		kept := entry.listeners[:0]
		for _, b := range entry.listeners {
			if b.listener != listener {
				kept = append(kept, b)
			}
		}
		entry.listeners = kept
	}
}

// Notifying reports whether a listener dispatch is currently in progress
// anywhere on this FamilyManager's call stack.
func (fm *FamilyManager) Notifying() bool { return fm.notifyDepth > 0 }

// UpdateMembership re-evaluates entity against every family known to this
// manager, in family-index order, appending/removing from cached arrays
// and dispatching entityAdded/entityRemoved as transitions occur. An entity
// inside its removal window (IsRemoving) matches no family, so removal
// leaves every family it belonged to while it still owns its components.
func (fm *FamilyManager) UpdateMembership(e *Entity) {
	for idx, entry := range fm.entries {
		if entry == nil {
			continue
		}
		matches := entry.family.Matches(e) && !e.removing
		belonged := e.FamilyBits().Has(idx)

		switch {
		case matches && !belonged:
			entry.entities = append(entry.entities, e)
			e.setFamilyBit(idx)
			fm.dispatch(entry, e, true)
		case !matches && belonged:
			entry.entities = removeOrderPreserving(entry.entities, e)
			e.clearFamilyBit(idx)
			fm.dispatch(entry, e, false)
		}
	}
}

func (fm *FamilyManager) dispatch(entry *familyEntry, e *Entity, added bool) {
	fm.notifyDepth++
	defer func() { fm.notifyDepth-- }()

	snapshot := make([]listenerBinding, len(entry.listeners))
	copy(snapshot, entry.listeners)

	for _, b := range snapshot {
		if added {
			b.listener.EntityAdded(e)
		} else {
			b.listener.EntityRemoved(e)
		}
	}
}

func removeOrderPreserving(entities []*Entity, e *Entity) []*Entity {
	for i, cur := range entities {
		if cur == e {
			return append(entities[:i], entities[i+1:]...)
		}
	}
	return entities
}

func stableSortByPriority(bindings []listenerBinding) {
	// insertion sort: small N, and it is naturally stable, matching the
	// "ties break by insertion order" requirement without pulling in
	// sort.SliceStable for a handful of elements.
	for i := 1; i < len(bindings); i++ {
		j := i
		for j > 0 && less(bindings[j], bindings[j-1]) {
			bindings[j], bindings[j-1] = bindings[j-1], bindings[j]
			j--
		}
	}
}

func less(a, b listenerBinding) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}
