package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoardCut/internal/model"
)

var pine = model.Material{Name: "Pine 2x4"}

func length(s string) model.Length {
	return model.MustParseLength(s)
}

func supply(name, l, price string, maxQty int) model.Supply {
	return model.NewSupply(name, length(l), decimal.RequireFromString(price), maxQty)
}

func part(name, l string, qty int) model.Part {
	return model.NewPart(name, length(l), qty)
}

// scenarioA mirrors the classic two-board case: one free board on hand and
// an unlimited store board.
func scenarioA() model.Problem {
	return model.Problem{
		pine: {
			Supplies: []model.Supply{
				supply("On hand", "8", "0", 1),
				supply("Store", "8", "3.5", model.Unlimited),
			},
			Parts: []model.Part{
				part("Leg", "3", 3),
				part("Rail", "1.5", 1),
			},
		},
	}
}

// assertValidSolution checks demand, capacity and availability for every
// material of solution.
func assertValidSolution(t *testing.T, problem model.Problem, solution model.Solution) {
	t.Helper()
	require.Len(t, solution, len(problem))

	for mat, sp := range problem {
		sub, ok := solution[mat]
		require.True(t, ok, "missing material %q", mat.Name)

		placed := make([]int, len(sp.Parts))
		used := make([]int, len(sp.Supplies))
		for _, cl := range sub.CutLists {
			require.GreaterOrEqual(t, cl.SupplyIndex, 0)
			require.Less(t, cl.SupplyIndex, len(sp.Supplies))
			assert.Positive(t, cl.Quantity)
			for _, pi := range cl.PartIndices {
				placed[pi] += cl.Quantity
			}
			used[cl.SupplyIndex] += cl.Quantity

			usedLength := cl.UsedLength(sp.Parts, sp.BladeWidth)
			assert.True(t, usedLength.LessOrEqual(sp.Supplies[cl.SupplyIndex].Length),
				"cut list %v uses %s of %s", cl.PartIndices, usedLength, sp.Supplies[cl.SupplyIndex].Length)
		}

		for pi, p := range sp.Parts {
			assert.Equal(t, p.Quantity, placed[pi], "demand for part %q", p.Name)
		}
		for si, s := range sp.Supplies {
			if !s.IsUnlimited() {
				assert.LessOrEqual(t, used[si], s.MaxQuantity, "availability of supply %q", s.Name)
			}
		}
	}
}

// recorder is a Sink collecting every message.
type recorder struct {
	messages []Message
}

func (r *recorder) sink() Sink {
	return SinkFunc(func(_ context.Context, msg Message) error {
		r.messages = append(r.messages, msg)
		return nil
	})
}

func (r *recorder) ofKind(kind Kind) []Message {
	var out []Message
	for _, m := range r.messages {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
