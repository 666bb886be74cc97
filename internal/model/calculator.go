package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// PurchaseEstimate is a quick, solver-free estimate of how many pieces of a
// single supply length to buy for a part list.
type PurchaseEstimate struct {
	TotalPartLength   Length          `json:"total_part_length"`   // parts plus one kerf each, meters
	SupplyLength      Length          `json:"supply_length"`       // meters
	PiecesNeededExact Length          `json:"pieces_needed_exact"` // exact fractional pieces
	PiecesNeededMin   int             `json:"pieces_needed_min"`   // ceiling of exact
	PiecesWithWaste   int             `json:"pieces_with_waste"`   // including waste factor
	WastePercent      int             `json:"waste_percent"`
	PricePerPiece     decimal.Decimal `json:"price_per_piece"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
}

// CalculatePurchaseEstimate computes a lower-bound purchase for the parts
// if they were all cut from pieces of supplyLength. Every unit is charged
// one blade width so the estimate errs on the side of buying enough.
func CalculatePurchaseEstimate(parts []Part, supplyLength, blade Length, wastePercent int, pricePerPiece decimal.Decimal) PurchaseEstimate {
	total := Length{}
	for _, p := range parts {
		total = total.Add(p.Length.Add(blade).Mul(int64(p.Quantity)))
	}

	est := PurchaseEstimate{
		TotalPartLength: total,
		SupplyLength:    supplyLength,
		WastePercent:    wastePercent,
		PricePerPiece:   pricePerPiece,
		EstimatedCost:   decimal.Zero,
	}
	if supplyLength.Sign() <= 0 {
		return est
	}

	exact := total.Quo(supplyLength)
	est.PiecesNeededExact = exact
	est.PiecesNeededMin = ceil(exact)

	// Apply waste factor
	withWaste := exact.Scale(NewLength(int64(100+wastePercent), 100))
	est.PiecesWithWaste = ceil(withWaste)
	if est.PiecesWithWaste < est.PiecesNeededMin {
		est.PiecesWithWaste = est.PiecesNeededMin
	}

	est.EstimatedCost = pricePerPiece.Mul(decimal.NewFromInt(int64(est.PiecesWithWaste)))
	return est
}

func ceil(l Length) int {
	r := l.rat()
	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return int(q.Int64())
}
