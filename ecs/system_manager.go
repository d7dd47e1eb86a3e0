package ecs

import "reflect"

type systemBinding struct {
	priority Priority
	seq      int
	system   System
}

// SystemManager keeps systems sorted by ascending priority (ties broken by
// registration order) and resolves lookups by concrete Go type. Adding a
// system of a type that is already registered replaces the previous
// instance.
type SystemManager struct {
	byType map[reflect.Type]System
	order  []systemBinding
	nextSeq int
}

// NewSystemManager creates an empty SystemManager.
func NewSystemManager() *SystemManager {
	return &SystemManager{byType: make(map[reflect.Type]System)}
}

// AddSystem registers system at priority, replacing any existing system of
// the same concrete type.
func (m *SystemManager) AddSystem(system System, priority Priority) {
	t := reflect.TypeOf(system)
	if _, exists := m.byType[t]; exists {
		m.removeByType(t)
	}
	m.byType[t] = system
	m.order = append(m.order, systemBinding{priority: priority, seq: m.nextSeq, system: system})
	m.nextSeq++
	m.stableSortByPriority()
}

// RemoveSystem unregisters the system with the same concrete type as
// system, if any.
func (m *SystemManager) RemoveSystem(system System) {
	m.removeByType(reflect.TypeOf(system))
}

func (m *SystemManager) removeByType(t reflect.Type) {
	delete(m.byType, t)
	kept := m.order[:0]
	for _, b := range m.order {
		if reflect.TypeOf(b.system) != t {
			kept = append(kept, b)
		}
	}
	m.order = kept
}

// RemoveAllSystems deregisters every system.
func (m *SystemManager) RemoveAllSystems() {
	m.byType = make(map[reflect.Type]System)
	m.order = nil
}

// GetSystem returns the registered system whose concrete type matches
// sample's, if any.
func (m *SystemManager) GetSystem(sample System) (System, bool) {
	s, ok := m.byType[reflect.TypeOf(sample)]
	return s, ok
}

// GetSystems returns every registered system in ascending-priority order.
func (m *SystemManager) GetSystems() []System {
	out := make([]System, len(m.order))
	for i, b := range m.order {
		out[i] = b.system
	}
	return out
}

func (m *SystemManager) stableSortByPriority() {
	for i := 1; i < len(m.order); i++ {
		j := i
		for j > 0 && systemLess(m.order[j], m.order[j-1]) {
			m.order[j], m.order[j-1] = m.order[j-1], m.order[j]
			j--
		}
	}
}

func systemLess(a, b systemBinding) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}
