package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Bitset_NewIsEmpty(t *testing.T) {
	b := New()

	assert.True(t, b.IsEmpty())
	assert.False(t, b.Has(0))
	assert.False(t, b.Has(200))
}

func Test_Bitset_SetAndHas(t *testing.T) {
	b := New()

	b = b.Set(3)

	assert.True(t, b.Has(3))
	assert.False(t, b.Has(4))
	assert.False(t, b.IsEmpty())
}

func Test_Bitset_SetDoesNotMutateOriginal(t *testing.T) {
	a := New().Set(1)
	b := a.Set(2)

	assert.False(t, a.Has(2), "Set must not mutate the receiver")
	assert.True(t, b.Has(1))
	assert.True(t, b.Has(2))
}

func Test_Bitset_ClearBeyondWordsIsNoop(t *testing.T) {
	b := New()

	b = b.Clear(500)

	assert.True(t, b.IsEmpty())
}

func Test_Bitset_SetBeyondSingleWordGrows(t *testing.T) {
	b := New().Set(130)

	assert.True(t, b.Has(130))
	assert.False(t, b.Has(129))
}

func Test_Bitset_ContainsAll(t *testing.T) {
	all := Of(1, 2, 3)
	subset := Of(1, 3)

	assert.True(t, all.ContainsAll(subset))
	assert.False(t, subset.ContainsAll(all))
}

func Test_Bitset_ContainsAllEmptyIsAlwaysSatisfied(t *testing.T) {
	any := Of(5, 9)

	assert.True(t, any.ContainsAll(New()))
}

func Test_Bitset_Intersects(t *testing.T) {
	a := Of(1, 2)
	b := Of(2, 3)
	c := Of(4, 5)

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func Test_Bitset_And(t *testing.T) {
	a := Of(1, 2, 3)
	b := Of(2, 3, 4)

	result := a.And(b)

	assert.True(t, result.Has(2))
	assert.True(t, result.Has(3))
	assert.False(t, result.Has(1))
	assert.False(t, result.Has(4))
}

func Test_Bitset_Equals(t *testing.T) {
	a := Of(1, 65, 200)
	b := Of(200, 65, 1)
	c := Of(1, 65)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func Test_Bitset_EqualsIgnoresTrailingZeroWords(t *testing.T) {
	a := Of(1).Set(70).Clear(70)
	b := Of(1)

	assert.True(t, a.Equals(b))
}

func Test_Bitset_KeyIsStableAcrossConstructionOrder(t *testing.T) {
	a := Of(3, 1, 200)
	b := Of(200, 1, 3)

	assert.Equal(t, a.Key(), b.Key())
}

func Test_Bitset_KeyDistinguishesDifferentSets(t *testing.T) {
	a := Of(1, 2)
	b := Of(1, 3)

	assert.NotEqual(t, a.Key(), b.Key())
}
