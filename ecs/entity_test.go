package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecscore/ecs/bitset"
)

type positionComp struct{ x, y float64 }
type healthComp struct{ hp int }

func Test_Entity_AddInstallsComponentImmediatelyWhenUndeferred(t *testing.T) {
	e := NewEntity()

	e.Add(0, positionComp{1, 2})

	assert.True(t, e.Has(0))
	got, ok := e.Get(0)
	assert.True(t, ok)
	assert.Equal(t, positionComp{1, 2}, got)
}

func Test_Entity_AddSetsComponentBit(t *testing.T) {
	e := NewEntity()

	e.Add(3, positionComp{})

	assert.True(t, e.ComponentBits().Has(3))
}

func Test_Entity_RemoveOfAbsentComponentIsNoop(t *testing.T) {
	e := NewEntity()

	e.Remove(5)

	assert.False(t, e.Has(5))
}

func Test_Entity_RemoveClearsComponentBit(t *testing.T) {
	e := NewEntity()
	e.Add(2, positionComp{})

	e.Remove(2)

	assert.False(t, e.Has(2))
	assert.False(t, e.ComponentBits().Has(2))
}

func Test_Entity_RemoveAllRemovesEveryComponent(t *testing.T) {
	e := NewEntity()
	e.Add(0, positionComp{})
	e.Add(1, healthComp{10})

	e.RemoveAll()

	assert.True(t, e.ComponentBits().IsEmpty())
	assert.Len(t, e.Components(), 0)
}

func Test_Entity_ComponentsReturnsDefensiveCopy(t *testing.T) {
	e := NewEntity()
	e.Add(0, positionComp{1, 1})

	snapshot := e.Components()
	snapshot[0] = positionComp{99, 99}

	got, _ := e.Get(0)
	assert.Equal(t, positionComp{1, 1}, got, "mutating the returned map must not affect the entity")
}

func Test_Entity_AddDefersThroughAttachedHandler(t *testing.T) {
	registry := NewComponentTypeRegistry()
	deferring := true
	handler := NewComponentOperationHandler(registry, func() bool { return deferring })
	e := NewEntity()
	e.attach(handler)

	e.Add(0, positionComp{1, 1})

	assert.False(t, e.Has(0), "add must be queued, not applied, while deferring")

	deferring = false
	handler.ProcessOperations()

	assert.True(t, e.Has(0))
}

func Test_Entity_OnComponentAddedFiresAfterMutation(t *testing.T) {
	e := NewEntity()
	var observedHas bool
	e.onComponentAdded(func(ComponentType) { observedHas = e.Has(0) })

	e.Add(0, positionComp{})

	assert.True(t, observedHas)
}

func Test_Entity_OnComponentRemovedFiresOnlyWhenPresent(t *testing.T) {
	e := NewEntity()
	calls := 0
	e.onComponentRemoved(func(ComponentType) { calls++ })

	e.Remove(0)
	assert.Equal(t, 0, calls)

	e.Add(0, positionComp{})
	e.Remove(0)
	assert.Equal(t, 1, calls)
}

func Test_Entity_HasAnyReportsWhetherAtLeastOneBitIsPresent(t *testing.T) {
	e := NewEntity()
	e.Add(1, positionComp{})

	assert.True(t, e.HasAny(bitset.Of(0, 1)))
	assert.False(t, e.HasAny(bitset.Of(0, 2)))
}

func Test_Entity_HasAllReportsWhetherEveryBitIsPresent(t *testing.T) {
	e := NewEntity()
	e.Add(0, positionComp{})
	e.Add(1, healthComp{})

	assert.True(t, e.HasAll(bitset.Of(0, 1)))
	assert.False(t, e.HasAll(bitset.Of(0, 1, 2)))
}
