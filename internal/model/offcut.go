package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Offcut is a usable remnant left on supply pieces after cutting.
// Count pieces share the same material, source supply and length.
type Offcut struct {
	Material   string `json:"material"`
	SupplyName string `json:"supply_name"`
	Length     Length `json:"length"` // meters
	Count      int    `json:"count"`
}

// ToSupplyPreset converts the offcut into an on-hand (free) preset so it
// can be reused in future projects.
func (o Offcut) ToSupplyPreset() SupplyPreset {
	return NewSupplyPreset("Offcut "+o.SupplyName, o.Material, o.Length, decimal.Zero)
}

// DetectOffcuts lists the remnants of at least minLength left by a
// solution. Remnants shorter than minLength are waste. The blade width is
// subtracted once more because separating the remnant takes a cut.
func DetectOffcuts(solution Solution, minLength Length) []Offcut {
	var offcuts []Offcut
	for _, mat := range solution.Materials() {
		sub := solution[mat]
		for _, cl := range sub.CutLists {
			rest := cl.Offcut(sub.Supplies, sub.Parts, sub.BladeWidth)
			if len(cl.PartIndices) > 0 {
				rest = rest.Sub(sub.BladeWidth)
			}
			if rest.Sign() <= 0 || rest.Cmp(minLength) < 0 {
				continue
			}
			offcuts = mergeOffcut(offcuts, Offcut{
				Material:   mat.Name,
				SupplyName: sub.Supplies[cl.SupplyIndex].Name,
				Length:     rest,
				Count:      cl.Quantity,
			})
		}
	}

	// Longest first within a material, materials in name order
	sort.SliceStable(offcuts, func(i, j int) bool {
		if offcuts[i].Material != offcuts[j].Material {
			return offcuts[i].Material < offcuts[j].Material
		}
		return offcuts[i].Length.Cmp(offcuts[j].Length) > 0
	})
	return offcuts
}

func mergeOffcut(offcuts []Offcut, o Offcut) []Offcut {
	for i := range offcuts {
		if offcuts[i].Material == o.Material && offcuts[i].SupplyName == o.SupplyName && offcuts[i].Length.Equal(o.Length) {
			offcuts[i].Count += o.Count
			return offcuts
		}
	}
	return append(offcuts, o)
}
