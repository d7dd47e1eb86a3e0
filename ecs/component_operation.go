package ecs

type componentOpKind int

const (
	componentOpAdd componentOpKind = iota
	componentOpRemove
)

// ComponentOperation is a queued component mutation, applied during a
// drain in the order it was requested.
type ComponentOperation struct {
	kind      componentOpKind
	entity    *Entity
	typeIndex ComponentType
	component any
}

// ComponentOperationHandler queues component add/remove requests while
// iteration is live (updating or notifying) and applies them directly
// otherwise. Every Entity that joins an Engine is attached to exactly one
// handler, which is how Entity.Add/Remove know whether to defer.
type ComponentOperationHandler struct {
	registry *ComponentTypeRegistry
	defer_   func() bool
	queue    []ComponentOperation
}

// NewComponentOperationHandler creates a handler. defer_ is re-evaluated
// on every Add/Remove call: it must answer "true" while the owning
// Engine is updating or its FamilyManager is notifying.
func NewComponentOperationHandler(registry *ComponentTypeRegistry, defer_ func() bool) *ComponentOperationHandler {
	return &ComponentOperationHandler{registry: registry, defer_: defer_}
}

func (h *ComponentOperationHandler) shouldDefer() bool { return h.defer_() }

// Add resolves component's type index and routes the mutation through
// entity's own deferral decision.
func (h *ComponentOperationHandler) Add(entity *Entity, component any) {
	idx := h.registry.IndexOf(component)
	entity.Add(idx, component)
}

// Remove routes the mutation through entity's own deferral decision.
func (h *ComponentOperationHandler) Remove(entity *Entity, typeIndex ComponentType) {
	entity.Remove(typeIndex)
}

func (h *ComponentOperationHandler) enqueueAdd(entity *Entity, typeIndex ComponentType, component any) {
	h.queue = append(h.queue, ComponentOperation{kind: componentOpAdd, entity: entity, typeIndex: typeIndex, component: component})
}

func (h *ComponentOperationHandler) enqueueRemove(entity *Entity, typeIndex ComponentType) {
	h.queue = append(h.queue, ComponentOperation{kind: componentOpRemove, entity: entity, typeIndex: typeIndex})
}

// HasOperationsToProcess reports whether the queue is non-empty.
func (h *ComponentOperationHandler) HasOperationsToProcess() bool { return len(h.queue) > 0 }

// ProcessOperations drains the queue FIFO. Applying an operation may
// trigger family dispatch, which may enqueue further operations — the
// loop re-reads len(h.queue) on every iteration so growth during drain is
// tolerated.
func (h *ComponentOperationHandler) ProcessOperations() {
	for i := 0; i < len(h.queue); i++ {
		op := h.queue[i]
		switch op.kind {
		case componentOpAdd:
			op.entity.applyAdd(op.typeIndex, op.component)
		case componentOpRemove:
			op.entity.applyRemove(op.typeIndex)
		default:
			panic(ErrUnknownOperation(int(op.kind)))
		}
	}
	h.queue = h.queue[:0]
}
