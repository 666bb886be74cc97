package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDetectOffcuts(t *testing.T) {
	sol := Solution{
		{Name: "Pine"}: {
			Supplies:   []Supply{{Name: "Board 8", Length: LengthFromInt(8), Price: decimal.NewFromInt(4), MaxQuantity: Unlimited}},
			Parts:      []Part{{Name: "A", Length: LengthFromInt(3)}, {Name: "B", Length: LengthFromInt(7)}},
			BladeWidth: NewLength(1, 10),
			CutLists: []CutList{
				{SupplyIndex: 0, PartIndices: []int{0}, Quantity: 2},    // 8 - 3 - 0.1 = 4.9
				{SupplyIndex: 0, PartIndices: []int{1}, Quantity: 1},    // 8 - 7 - 0.1 = 0.9
				{SupplyIndex: 0, PartIndices: []int{0, 0}, Quantity: 1}, // 8 - 6.1 - 0.1 = 1.8
			},
		},
	}

	offcuts := DetectOffcuts(sol, LengthFromInt(1))
	if len(offcuts) != 2 {
		t.Fatalf("expected 2 offcuts, got %d: %+v", len(offcuts), offcuts)
	}
	if !offcuts[0].Length.Equal(MustParseLength("4.9")) || offcuts[0].Count != 2 {
		t.Errorf("expected 2 x 4.9 first, got %d x %s", offcuts[0].Count, offcuts[0].Length.FormatDecimal(3))
	}
	if !offcuts[1].Length.Equal(MustParseLength("1.8")) || offcuts[1].Count != 1 {
		t.Errorf("expected 1 x 1.8 second, got %d x %s", offcuts[1].Count, offcuts[1].Length.FormatDecimal(3))
	}
}

func TestDetectOffcutsMergesIdenticalRemnants(t *testing.T) {
	sol := Solution{
		{Name: "Pine"}: {
			Supplies: []Supply{{Name: "Board", Length: LengthFromInt(5)}},
			Parts:    []Part{{Length: LengthFromInt(1)}, {Length: LengthFromInt(2)}},
			CutLists: []CutList{
				{SupplyIndex: 0, PartIndices: []int{0, 0}, Quantity: 1},
				{SupplyIndex: 0, PartIndices: []int{1}, Quantity: 3},
			},
		},
	}
	offcuts := DetectOffcuts(sol, Length{})
	if len(offcuts) != 1 || offcuts[0].Count != 4 {
		t.Errorf("expected one merged offcut of count 4, got %+v", offcuts)
	}
}

