package ecs

// EntityManager owns the master entity array and id lookup, and queues
// add/remove requests while the owning Engine is updating or notifying.
// Duplicate registration is detected by entity identity, not by id —
// an entity that was removed (id reset to 0) and never re-added cannot
// collide with a fresh entity that happens to receive the same id.
type EntityManager struct {
	master []*Entity
	byID   map[EntityID]*Entity
	set    map[*Entity]struct{}

	queue []*EntityOperation
	pool  entityOperationPool

	handler *ComponentOperationHandler

	onAdded   func(*Entity)
	onRemoved func(*Entity)
}

// NewEntityManager creates an EntityManager. handler is attached to every
// entity that joins (so Entity.Add/Remove know whether to defer); onAdded
// and onRemoved are invoked synchronously from addInternal/removeInternal
// and are how the owning Engine wires FamilyManager.UpdateMembership in.
func NewEntityManager(capacity int, handler *ComponentOperationHandler, onAdded, onRemoved func(*Entity)) *EntityManager {
	return &EntityManager{
		master:    make([]*Entity, 0, capacity),
		byID:      make(map[EntityID]*Entity, capacity),
		set:       make(map[*Entity]struct{}, capacity),
		handler:   handler,
		onAdded:   onAdded,
		onRemoved: onRemoved,
	}
}

// AddEntity registers entity, immediately or, when delayed, after the next
// drain.
func (m *EntityManager) AddEntity(entity *Entity, delayed bool) error {
	entity.scheduledForRemoval = false
	if delayed {
		op := m.pool.acquire(entityOpAdd)
		op.entity = entity
		m.queue = append(m.queue, op)
		return nil
	}
	return m.addInternal(entity)
}

func (m *EntityManager) addInternal(entity *Entity) error {
	if _, exists := m.set[entity]; exists {
		return ErrAlreadyRegistered(entity.ID())
	}
	entity.attach(m.handler)
	m.master = append(m.master, entity)
	m.byID[entity.ID()] = entity
	m.set[entity] = struct{}{}
	if m.onAdded != nil {
		m.onAdded(entity)
	}
	return nil
}

// RemoveEntity unregisters entity, immediately or, when delayed, after the
// next drain. A second delayed removal of an already-flagged entity is a
// no-op, so scheduling removal twice is harmless.
func (m *EntityManager) RemoveEntity(entity *Entity, delayed bool) error {
	if delayed {
		if entity.scheduledForRemoval {
			return nil
		}
		entity.scheduledForRemoval = true
		op := m.pool.acquire(entityOpRemove)
		op.entity = entity
		m.queue = append(m.queue, op)
		return nil
	}
	return m.removeInternal(entity)
}

func (m *EntityManager) removeInternal(entity *Entity) error {
	if _, exists := m.set[entity]; !exists {
		return nil
	}
	delete(m.set, entity)
	m.master = removeOrderPreserving(m.master, entity)

	id := entity.ID()
	entity.removing = true
	if m.onRemoved != nil {
		m.onRemoved(entity)
	}
	entity.removing = false

	if cur, ok := m.byID[id]; ok && cur == entity {
		delete(m.byID, id)
	}
	entity.detach()
	entity.id = InvalidEntityID
	return nil
}

// RemoveAllEntities removes every entity currently in view. Delayed, it
// flags the entities present at call time and captures the live view
// itself (not a snapshot): per spec, the operation removes whatever the
// view contains at drain time, which may differ from what it contained
// when scheduled.
func (m *EntityManager) RemoveAllEntities(view *EntityView, delayed bool) error {
	if delayed {
		for i := 0; i < view.Len(); i++ {
			view.At(i).scheduledForRemoval = true
		}
		op := m.pool.acquire(entityOpRemoveAll)
		op.view = view
		m.queue = append(m.queue, op)
		return nil
	}
	for view.Len() > 0 {
		if err := m.removeInternal(view.At(0)); err != nil {
			return err
		}
	}
	return nil
}

// HasOperationsToProcess reports whether the queue is non-empty.
func (m *EntityManager) HasOperationsToProcess() bool { return len(m.queue) > 0 }

// ProcessOperations drains the queue FIFO, releasing each record to the
// pool once applied. The loop re-reads len(m.queue) every iteration so
// operations enqueued by dispatch during the drain are also applied.
func (m *EntityManager) ProcessOperations() error {
	for i := 0; i < len(m.queue); i++ {
		op := m.queue[i]
		switch op.kind {
		case entityOpAdd:
			if err := m.addInternal(op.entity); err != nil {
				return err
			}
		case entityOpRemove:
			if err := m.removeInternal(op.entity); err != nil {
				return err
			}
		case entityOpRemoveAll:
			for op.view.Len() > 0 {
				if err := m.removeInternal(op.view.At(0)); err != nil {
					return err
				}
			}
		default:
			panic(ErrUnknownOperation(int(op.kind)))
		}
		m.pool.release(op)
	}
	m.queue = m.queue[:0]
	return nil
}

// GetEntity looks up an entity by id.
func (m *EntityManager) GetEntity(id EntityID) (*Entity, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// GetEntities returns a snapshot copy of the master array in insertion
// order.
func (m *EntityManager) GetEntities() []*Entity {
	out := make([]*Entity, len(m.master))
	copy(out, m.master)
	return out
}

// Count returns the number of currently registered entities.
func (m *EntityManager) Count() int { return len(m.master) }
