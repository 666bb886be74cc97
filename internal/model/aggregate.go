package model

import "github.com/shopspring/decimal"

// TotalPrice sums supply price times pattern quantity over every cut list.
// It panics if a cut list references a supply index that does not exist,
// which means the solution was not produced by a solver.
func TotalPrice(solution Solution) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range solution {
		for _, cl := range sub.CutLists {
			unit := sub.Supplies[cl.SupplyIndex].Price
			total = total.Add(unit.Mul(decimal.NewFromInt(int64(cl.Quantity))))
		}
	}
	return total
}

// SupplyConsumption counts, per material, how many pieces of each supply
// the solution uses. The slice is parallel to the sub-solution's supplies.
func SupplyConsumption(solution Solution) map[Material][]int {
	consumption := make(map[Material][]int, len(solution))
	for mat, sub := range solution {
		counts := make([]int, len(sub.Supplies))
		for _, cl := range sub.CutLists {
			counts[cl.SupplyIndex] += cl.Quantity
		}
		consumption[mat] = counts
	}
	return consumption
}

// Waste returns, per material, the total offcut length left on every
// consumed supply piece.
func Waste(solution Solution) map[Material]Length {
	waste := make(map[Material]Length, len(solution))
	for mat, sub := range solution {
		total := Length{}
		for _, cl := range sub.CutLists {
			off := cl.Offcut(sub.Supplies, sub.Parts, sub.BladeWidth)
			total = total.Add(off.Mul(int64(cl.Quantity)))
		}
		waste[mat] = total
	}
	return waste
}

// PiecesUsed returns the total number of supply pieces cut.
func PiecesUsed(solution Solution) int {
	n := 0
	for _, sub := range solution {
		for _, cl := range sub.CutLists {
			n += cl.Quantity
		}
	}
	return n
}
