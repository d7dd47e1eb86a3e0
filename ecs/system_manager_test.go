package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSystem struct {
	name       string
	processing bool
	updates    *[]string
}

func (s *stubSystem) CheckProcessing() bool { return s.processing }
func (s *stubSystem) Update(float64)        { *s.updates = append(*s.updates, s.name) }

type otherStubSystem struct{ stubSystem }

func Test_SystemManager_AddSystemOrdersByAscendingPriority(t *testing.T) {
	m := NewSystemManager()
	var updates []string
	low := &stubSystem{name: "low", processing: true, updates: &updates}
	high := &otherStubSystem{stubSystem{name: "high", processing: true, updates: &updates}}

	m.AddSystem(high, 10)
	m.AddSystem(low, 1)

	systems := m.GetSystems()
	assert.Len(t, systems, 2)
	assert.Same(t, System(low), systems[0])
	assert.Same(t, System(high), systems[1])
}

func Test_SystemManager_TiesBreakByInsertionOrder(t *testing.T) {
	m := NewSystemManager()
	var updates []string
	first := &stubSystem{name: "first", updates: &updates}
	second := &otherStubSystem{stubSystem{name: "second", updates: &updates}}

	m.AddSystem(first, 5)
	m.AddSystem(second, 5)

	systems := m.GetSystems()
	assert.Same(t, System(first), systems[0])
	assert.Same(t, System(second), systems[1])
}

func Test_SystemManager_AddSystemReplacesSameConcreteType(t *testing.T) {
	m := NewSystemManager()
	var updates []string
	original := &stubSystem{name: "original", updates: &updates}
	replacement := &stubSystem{name: "replacement", updates: &updates}

	m.AddSystem(original, 1)
	m.AddSystem(replacement, 1)

	systems := m.GetSystems()
	assert.Len(t, systems, 1)
	assert.Same(t, System(replacement), systems[0])
}

func Test_SystemManager_GetSystemLooksUpByConcreteType(t *testing.T) {
	m := NewSystemManager()
	var updates []string
	s := &stubSystem{name: "s", updates: &updates}
	m.AddSystem(s, 0)

	got, ok := m.GetSystem(&stubSystem{})

	assert.True(t, ok)
	assert.Same(t, System(s), got)
}

func Test_SystemManager_RemoveSystemDeregisters(t *testing.T) {
	m := NewSystemManager()
	var updates []string
	s := &stubSystem{name: "s", updates: &updates}
	m.AddSystem(s, 0)

	m.RemoveSystem(s)

	assert.Len(t, m.GetSystems(), 0)
	_, ok := m.GetSystem(&stubSystem{})
	assert.False(t, ok)
}

func Test_SystemManager_RemoveAllSystemsClearsEverything(t *testing.T) {
	m := NewSystemManager()
	var updates []string
	m.AddSystem(&stubSystem{name: "a", updates: &updates}, 0)
	m.AddSystem(&otherStubSystem{stubSystem{name: "b", updates: &updates}}, 1)

	m.RemoveAllSystems()

	assert.Len(t, m.GetSystems(), 0)
}
