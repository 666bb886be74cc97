package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/BoardCut/internal/model"
)

func TestGroup_MergesIdenticalPatterns(t *testing.T) {
	in := []model.CutList{
		{SupplyIndex: 0, PartIndices: []int{0, 1}, Quantity: 1},
		{SupplyIndex: 1, PartIndices: []int{0, 1}, Quantity: 1},
		{SupplyIndex: 0, PartIndices: []int{0, 1}, Quantity: 2},
		{SupplyIndex: 0, PartIndices: []int{1, 0}, Quantity: 1},
	}

	got := Group(in)

	assert.Equal(t, []model.CutList{
		{SupplyIndex: 0, PartIndices: []int{0, 1}, Quantity: 3},
		{SupplyIndex: 1, PartIndices: []int{0, 1}, Quantity: 1},
		{SupplyIndex: 0, PartIndices: []int{1, 0}, Quantity: 1},
	}, got, "order within a pattern matters")
}

func TestGroup_Idempotent(t *testing.T) {
	in := []model.CutList{
		{SupplyIndex: 2, PartIndices: []int{3}, Quantity: 1},
		{SupplyIndex: 2, PartIndices: []int{3}, Quantity: 1},
		{SupplyIndex: 0, PartIndices: []int{1, 1, 2}, Quantity: 1},
		{SupplyIndex: 0, PartIndices: []int{1, 1, 2}, Quantity: 4},
		{SupplyIndex: 0, PartIndices: []int{11, 2}, Quantity: 1},
		{SupplyIndex: 0, PartIndices: []int{1, 12}, Quantity: 1},
	}

	once := Group(in)
	twice := Group(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 4)
}

func TestGroup_DoesNotAliasInput(t *testing.T) {
	in := []model.CutList{{SupplyIndex: 0, PartIndices: []int{0}, Quantity: 1}}

	out := Group(in)
	out[0].PartIndices[0] = 7

	assert.Equal(t, 0, in[0].PartIndices[0])
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))
}
