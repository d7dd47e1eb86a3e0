package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FamilyBuilder_GetCanonicalizesEqualDescriptors(t *testing.T) {
	a := All(0, 1).Get()
	b := All(1, 0).Get()

	assert.Same(t, a, b)
	assert.Equal(t, a.Index(), b.Index())
}

func Test_FamilyBuilder_GetDistinguishesDifferentDescriptors(t *testing.T) {
	a := All(0).Get()
	b := All(0).Exclude(1).Get()

	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.Index(), b.Index())
}

func Test_Family_MatchesRequiresAllTypes(t *testing.T) {
	f := All(0, 1).Get()
	e := NewEntity()
	e.Add(0, positionComp{})

	assert.False(t, f.Matches(e))

	e.Add(1, healthComp{})

	assert.True(t, f.Matches(e))
}

func Test_Family_MatchesRequiresAtLeastOneOfOneSet(t *testing.T) {
	f := All().One(0, 1).Get()
	e := NewEntity()

	assert.False(t, f.Matches(e))

	e.Add(1, healthComp{})

	assert.True(t, f.Matches(e))
}

func Test_Family_MatchesRejectsExcludedType(t *testing.T) {
	f := All(0).Exclude(2).Get()
	e := NewEntity()
	e.Add(0, positionComp{})

	assert.True(t, f.Matches(e))

	e.Add(2, healthComp{})

	assert.False(t, f.Matches(e))
}

func Test_Family_EmptyDescriptorMatchesEveryEntity(t *testing.T) {
	f := All().Get()
	empty := NewEntity()
	populated := NewEntity()
	populated.Add(0, positionComp{})

	assert.True(t, f.Matches(empty))
	assert.True(t, f.Matches(populated))
}
