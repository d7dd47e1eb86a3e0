package ecs

import (
	"sync"

	"ecscore/ecs/bitset"
)

// Family is an immutable predicate over an entity's component bitset:
// must have every type in all, at least one type in one (or one is
// empty), and none of the types in exclude. Equality is structural over
// the three bitsets, and FamilyBuilder.Get canonicalizes: two
// structurally equal descriptors always yield the same *Family and the
// same Index.
type Family struct {
	all, one, exclude bitset.Bitset
	index             FamilyIndex
}

// Index returns the small-integer index assigned to this family on first
// registration, used as the bit position in an Entity's familyBits.
func (f *Family) Index() FamilyIndex { return f.index }

// Matches reports whether entity satisfies this family's predicate.
func (f *Family) Matches(e *Entity) bool {
	if !e.HasAll(f.all) {
		return false
	}
	if !f.one.IsEmpty() && !e.HasAny(f.one) {
		return false
	}
	if e.HasAny(f.exclude) {
		return false
	}
	return true
}

// FamilyBuilder accumulates all/one/exclude constraints before
// canonicalizing into a Family via Get.
type FamilyBuilder struct {
	all, one, exclude bitset.Bitset
}

// All starts (or extends) a builder requiring every given component type.
func All(types ...ComponentType) *FamilyBuilder { return (&FamilyBuilder{}).All(types...) }

// One starts (or extends) a builder requiring at least one given type.
func One(types ...ComponentType) *FamilyBuilder { return (&FamilyBuilder{}).One(types...) }

// Exclude starts (or extends) a builder requiring none of the given types.
func Exclude(types ...ComponentType) *FamilyBuilder { return (&FamilyBuilder{}).Exclude(types...) }

// All adds component types that must all be present.
func (b *FamilyBuilder) All(types ...ComponentType) *FamilyBuilder {
	for _, t := range types {
		b.all = b.all.Set(int(t))
	}
	return b
}

// One adds component types of which at least one must be present.
func (b *FamilyBuilder) One(types ...ComponentType) *FamilyBuilder {
	for _, t := range types {
		b.one = b.one.Set(int(t))
	}
	return b
}

// Exclude adds component types that must not be present.
func (b *FamilyBuilder) Exclude(types ...ComponentType) *FamilyBuilder {
	for _, t := range types {
		b.exclude = b.exclude.Set(int(t))
	}
	return b
}

// Get canonicalizes the accumulated constraints into a Family, returning
// the existing instance for a structurally equal descriptor if one has
// already been registered.
func (b *FamilyBuilder) Get() *Family {
	key := b.all.Key() + "\x00" + b.one.Key() + "\x00" + b.exclude.Key()

	familyRegistryMu.Lock()
	defer familyRegistryMu.Unlock()

	if f, ok := familyRegistry[key]; ok {
		return f
	}
	f := &Family{all: b.all, one: b.one, exclude: b.exclude, index: nextFamilyIndex}
	nextFamilyIndex++
	familyRegistry[key] = f
	return f
}

// familyRegistry canonicalizes Family instances process-wide, mirroring
// ComponentTypeRegistry's process-lifetime stability guarantee.
var (
	familyRegistryMu sync.Mutex
	familyRegistry   = make(map[string]*Family)
	nextFamilyIndex  FamilyIndex
)
