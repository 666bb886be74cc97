package export

import (
	"github.com/shopspring/decimal"

	"github.com/piwi3910/BoardCut/internal/model"
)

// ShoppingLine is how many pieces of one supply a plan consumes.
type ShoppingLine struct {
	Material string
	Supply   model.Supply
	Quantity int
}

// Subtotal is the price of all pieces on the line.
func (l ShoppingLine) Subtotal() decimal.Decimal {
	return l.Supply.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShoppingList returns the consumed supplies, materials in name order and
// supplies in problem order. Unused supplies are left out.
func ShoppingList(solution model.Solution) []ShoppingLine {
	consumption := model.SupplyConsumption(solution)

	var lines []ShoppingLine
	for _, mat := range solution.Materials() {
		sub := solution[mat]
		for si, n := range consumption[mat] {
			if n == 0 {
				continue
			}
			lines = append(lines, ShoppingLine{
				Material: mat.Name,
				Supply:   sub.Supplies[si],
				Quantity: n,
			})
		}
	}
	return lines
}
