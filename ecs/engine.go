package ecs

import (
	"reflect"
	"sync/atomic"
)

const defaultLoadFactor = 0.75

// nextEntityID is shared by every Engine in the process, so the ids
// CreateEntity hands out are process-unique and start at 1.
var nextEntityID atomic.Uint64

// ComponentFactory builds a component of its registered type.
// A factory may decline (return ok=false) rather than panic — component
// creation failure is a nullable result, not an exception.
type ComponentFactory func() (component any, ok bool)

// Engine is the runtime facade: entity lifecycle, family-scoped queries and
// listeners, and the system tick loop. An Engine is single-threaded
// cooperative — every call above must come from the thread that owns it.
type Engine struct {
	registry         *ComponentTypeRegistry
	componentHandler *ComponentOperationHandler
	entities         *EntityManager
	families         *FamilyManager
	systems          *SystemManager

	factories map[reflect.Type]ComponentFactory

	universal *Family

	updating bool
}

// NewEngine creates an Engine with default initial capacity.
func NewEngine() *Engine {
	return NewEngineWithCapacity(16, defaultLoadFactor)
}

// NewEngineWithCapacity creates an Engine sized for initialEntitiesCapacity
// entities at the given load factor, mirroring the capacity/loadFactor
// tuning knobs of a hash-map-backed entity store.
func NewEngineWithCapacity(initialEntitiesCapacity int, loadFactor float64) *Engine {
	if loadFactor <= 0 {
		loadFactor = defaultLoadFactor
	}
	mapCapacity := int(float64(initialEntitiesCapacity) / loadFactor)

	e := &Engine{
		registry:  NewComponentTypeRegistry(),
		factories: make(map[reflect.Type]ComponentFactory),
	}
	e.componentHandler = NewComponentOperationHandler(e.registry, e.shouldDeferMutation)
	e.entities = NewEntityManager(mapCapacity, e.componentHandler, e.onEntityAdded, e.onEntityRemoved)
	e.families = NewFamilyManager(e.entities.GetEntities)
	e.systems = NewSystemManager()
	e.universal = All().Get()
	return e
}

func (e *Engine) shouldDeferMutation() bool {
	return e.updating || e.families.Notifying()
}

func (e *Engine) onEntityAdded(entity *Entity) {
	e.families.UpdateMembership(entity)
	entity.onComponentAdded(func(ComponentType) { e.families.UpdateMembership(entity) })
	entity.onComponentRemoved(func(ComponentType) { e.families.UpdateMembership(entity) })
}

func (e *Engine) onEntityRemoved(entity *Entity) {
	e.families.UpdateMembership(entity)
}

// CreateEntity allocates a fresh, detached entity with a process-unique id.
// It is not registered with the engine until passed to AddEntity.
func (e *Engine) CreateEntity() *Entity {
	entity := NewEntity()
	entity.id = EntityID(nextEntityID.Add(1))
	return entity
}

// RegisterComponentFactory installs the factory used by CreateComponent for
// components of sample's concrete type.
func (e *Engine) RegisterComponentFactory(sample any, factory ComponentFactory) {
	e.factories[reflect.TypeOf(sample)] = factory
}

// CreateComponent invokes the registered factory for sample's concrete
// type. ok is false if no factory is registered or the factory declines.
func (e *Engine) CreateComponent(sample any) (component any, ok bool) {
	factory, registered := e.factories[reflect.TypeOf(sample)]
	if !registered {
		return nil, false
	}
	return factory()
}

// ComponentTypeOf returns the stable ComponentType index for component's
// concrete Go type, assigning one if this is the first time the type has
// been seen. Family predicates are built from these indices.
func (e *Engine) ComponentTypeOf(component any) ComponentType {
	return e.registry.IndexOf(component)
}

// AddComponent installs component on entity, deferring the mutation if the
// engine is currently updating or notifying.
func (e *Engine) AddComponent(entity *Entity, component any) {
	e.componentHandler.Add(entity, component)
}

// RemoveComponent uninstalls the component of the same concrete type as
// component from entity, deferring the mutation if necessary.
func (e *Engine) RemoveComponent(entity *Entity, component any) {
	e.componentHandler.Remove(entity, e.registry.IndexOf(component))
}

// AddEntity registers entity with the engine, deferring the registration if
// the engine is currently updating or notifying.
func (e *Engine) AddEntity(entity *Entity) error {
	return e.entities.AddEntity(entity, e.shouldDeferMutation())
}

// RemoveEntity unregisters entity, deferring if necessary.
func (e *Engine) RemoveEntity(entity *Entity) error {
	return e.entities.RemoveEntity(entity, e.shouldDeferMutation())
}

// RemoveEntityByID unregisters the entity currently holding id, if any.
func (e *Engine) RemoveEntityByID(id EntityID) error {
	entity, ok := e.entities.GetEntity(id)
	if !ok {
		return nil
	}
	return e.RemoveEntity(entity)
}

// RemoveAllEntities removes every registered entity.
func (e *Engine) RemoveAllEntities() error {
	return e.RemoveAllEntitiesIn(e.universal)
}

// RemoveAllEntitiesIn removes every entity currently matching family.
func (e *Engine) RemoveAllEntitiesIn(family *Family) error {
	view := e.families.GetEntitiesFor(family)
	return e.entities.RemoveAllEntities(view, e.shouldDeferMutation())
}

// GetEntity looks up a registered entity by id.
func (e *Engine) GetEntity(id EntityID) (*Entity, bool) {
	return e.entities.GetEntity(id)
}

// GetEntities returns a snapshot of every registered entity, in
// registration order.
func (e *Engine) GetEntities() []*Entity {
	return e.entities.GetEntities()
}

// GetEntitiesFor returns a live view of family's current membership.
func (e *Engine) GetEntitiesFor(family *Family) *EntityView {
	return e.families.GetEntitiesFor(family)
}

// AddEntityListener registers listener for membership transitions in
// family, at priority. A nil family matches every entity.
func (e *Engine) AddEntityListener(family *Family, priority Priority, listener FamilyListener) {
	if family == nil {
		family = e.universal
	}
	e.families.AddEntityListener(family, priority, listener)
}

// RemoveEntityListener removes listener from every family it is registered
// against.
func (e *Engine) RemoveEntityListener(listener FamilyListener) {
	e.families.RemoveEntityListener(listener)
}

// AddSystem registers system at priority, replacing any system already
// registered with the same concrete type.
func (e *Engine) AddSystem(system System, priority Priority) {
	e.systems.AddSystem(system, priority)
}

// RemoveSystem unregisters the system with the same concrete type as
// system.
func (e *Engine) RemoveSystem(system System) {
	e.systems.RemoveSystem(system)
}

// RemoveAllSystems unregisters every system.
func (e *Engine) RemoveAllSystems() {
	e.systems.RemoveAllSystems()
}

// GetSystem returns the registered system whose concrete type matches
// sample's.
func (e *Engine) GetSystem(sample System) (System, bool) {
	return e.systems.GetSystem(sample)
}

// GetSystems returns every registered system in ascending-priority order.
func (e *Engine) GetSystems() []System {
	return e.systems.GetSystems()
}

// IsUpdating reports whether Update is currently executing on the call
// stack (directly or via reentrancy through a listener).
func (e *Engine) IsUpdating() bool { return e.updating }

// Update runs one tick: every system whose CheckProcessing reports true is
// updated in ascending-priority order, with pending component and entity
// operations drained to a fixpoint after each system. Calling Update while
// an Update on the same Engine is already executing returns
// ErrReentrantUpdate.
func (e *Engine) Update(deltaTime float64) error {
	if e.updating {
		return ErrReentrantUpdate()
	}
	e.updating = true
	defer func() { e.updating = false }()

	for _, system := range e.systems.GetSystems() {
		if system.CheckProcessing() {
			system.Update(deltaTime)
		}
		if err := e.drainPending(); err != nil {
			return err
		}
	}
	return nil
}

// ProcessPendingOperations drains any component and entity operations
// queued outside of Update (for example by a listener invoked from
// AddEntity itself). It is a no-op if nothing is queued.
func (e *Engine) ProcessPendingOperations() error {
	return e.drainPending()
}

func (e *Engine) drainPending() error {
	for e.componentHandler.HasOperationsToProcess() || e.entities.HasOperationsToProcess() {
		e.componentHandler.ProcessOperations()
		if err := e.entities.ProcessOperations(); err != nil {
			return err
		}
	}
	return nil
}
