package engine

import (
	"context"

	"github.com/piwi3910/BoardCut/internal/model"
)

// Greedy is the reference strategy. Units are placed one at a time in
// input order: into the first opened piece whose remaining length fits,
// otherwise onto a new piece of the cheapest eligible supply.
//
// Greedy is deterministic but incomplete: it can report ErrInfeasible for
// problems another placement order would solve.
type Greedy struct{}

func (Greedy) Name() string { return string(model.AlgorithmGreedy) }

func (Greedy) SolveSubProblem(ctx context.Context, sp model.SubProblem, progress ProgressFunc) (model.SubSolution, error) {
	total := sp.TotalUnits()
	packer := newLinearPacker(sp)
	placed := 0

	for pi, part := range sp.Parts {
		for u := 0; u < part.Quantity; u++ {
			if err := ctx.Err(); err != nil {
				return model.SubSolution{}, err
			}
			if !packer.place(pi) {
				return model.SubSolution{}, &InfeasibleError{Part: part.Name, Length: part.Length}
			}
			placed++
			if progress != nil {
				if err := progress(float64(placed) / float64(total)); err != nil {
					return model.SubSolution{}, err
				}
			}
		}
	}

	return packer.solution(), nil
}

// linearPacker holds the placement state of one sub-problem: opened
// pieces, their remaining length and how many pieces each supply gave.
type linearPacker struct {
	sp          model.SubProblem
	consumption []int
	remaining   []model.Length
	cutLists    []model.CutList
}

func newLinearPacker(sp model.SubProblem) *linearPacker {
	return &linearPacker{
		sp:          sp,
		consumption: make([]int, len(sp.Supplies)),
	}
}

// place cuts one unit of part pi. It reports false when no opened piece
// fits and no supply is eligible.
func (p *linearPacker) place(pi int) bool {
	part := p.sp.Parts[pi]

	// First fit into an opened piece
	for j := range p.cutLists {
		if p.remaining[j].Cmp(part.Length) >= 0 {
			p.cutLists[j].PartIndices = append(p.cutLists[j].PartIndices, pi)
			p.remaining[j] = p.remaining[j].Sub(part.Length).Sub(p.sp.BladeWidth)
			return true
		}
	}

	si := p.cheapestSupply(part.Length)
	if si < 0 {
		return false
	}
	p.consumption[si]++
	p.cutLists = append(p.cutLists, model.CutList{
		SupplyIndex: si,
		PartIndices: []int{pi},
		Quantity:    1,
	})
	p.remaining = append(p.remaining, p.sp.Supplies[si].Length.Sub(part.Length).Sub(p.sp.BladeWidth))
	return true
}

// cheapestSupply returns the index of the lowest-priced supply that is
// long enough and still available, or -1. The first index wins ties.
func (p *linearPacker) cheapestSupply(length model.Length) int {
	best := -1
	for i, s := range p.sp.Supplies {
		if length.Cmp(s.Length) > 0 || !s.Available(p.consumption[i]) {
			continue
		}
		if best < 0 || s.Price.LessThan(p.sp.Supplies[best].Price) {
			best = i
		}
	}
	return best
}

func (p *linearPacker) solution() model.SubSolution {
	return model.SubSolution{
		CutLists:   p.cutLists,
		Supplies:   p.sp.Supplies,
		Parts:      p.sp.Parts,
		BladeWidth: p.sp.BladeWidth,
	}
}
