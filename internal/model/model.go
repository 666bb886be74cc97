package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unlimited is the MaxQuantity sentinel for a supply that can be
// consumed any number of times.
const Unlimited = -1

// Algorithm selects the strategy used to solve each material.
type Algorithm string

const (
	AlgorithmGreedy  Algorithm = "greedy"  // First-fit reuse, else cheapest new piece (fast, reference)
	AlgorithmGenetic Algorithm = "genetic" // Genetic search over cutting order (slower, often cheaper)
)

// ParseAlgorithm maps a name to an Algorithm. An empty name means greedy.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", AlgorithmGreedy:
		return AlgorithmGreedy, nil
	case AlgorithmGenetic:
		return AlgorithmGenetic, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q", name)
	}
}

func newID() string {
	return uuid.New().String()[:8]
}

// Material identifies a class of stock sharing supplies and parts,
// e.g. "Pine 2x4". Supplies and parts of different materials never
// interact.
type Material struct {
	Name string `json:"name"`
}

// Supply is a purchasable or on-hand stock item.
//
// A price of zero means the supply is on hand (free). A MaxQuantity of
// Unlimited means it can be bought in any amount.
type Supply struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Length      Length          `json:"length"` // meters
	Price       decimal.Decimal `json:"price"`
	MaxQuantity int             `json:"max_quantity"`
}

func NewSupply(name string, length Length, price decimal.Decimal, maxQty int) Supply {
	return Supply{
		ID:          newID(),
		Name:        name,
		Length:      length,
		Price:       price,
		MaxQuantity: maxQty,
	}
}

// IsUnlimited reports whether the supply has no availability limit.
func (s Supply) IsUnlimited() bool {
	return s.MaxQuantity == Unlimited
}

// Available reports whether one more piece can be taken given the
// number already consumed.
func (s Supply) Available(consumed int) bool {
	return s.IsUnlimited() || consumed < s.MaxQuantity
}

// Part is a demanded cut.
type Part struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Length   Length `json:"length"` // meters
	Quantity int    `json:"quantity"`
}

func NewPart(name string, length Length, qty int) Part {
	return Part{
		ID:       newID(),
		Name:     name,
		Length:   length,
		Quantity: qty,
	}
}

// SubProblem is the solvable unit of a single material.
type SubProblem struct {
	Supplies   []Supply `json:"supplies"`
	Parts      []Part   `json:"parts"`
	BladeWidth Length   `json:"blade_width"` // kerf consumed per cut
}

// TotalUnits returns the number of part units demanded, saturating at
// math.MaxInt.
func (sp SubProblem) TotalUnits() int {
	total := 0
	for _, p := range sp.Parts {
		if p.Quantity > math.MaxInt-total {
			return math.MaxInt
		}
		total += p.Quantity
	}
	return total
}

// Problem maps each material to its independent sub-problem.
type Problem map[Material]SubProblem

// Materials returns the problem's materials sorted by name, the order in
// which solvers process them.
func (p Problem) Materials() []Material {
	return sortedMaterials(p)
}

// CutList is one planned cutting pattern.
//
// PartIndices holds one entry per unit cut from a single supply piece, in
// cutting order. Quantity is the number of identical supply pieces cut with
// this pattern.
type CutList struct {
	SupplyIndex int   `json:"supply_index"`
	PartIndices []int `json:"part_indices"`
	Quantity    int   `json:"quantity"`
}

// UsedLength returns the length one piece loses to this pattern: the
// parts plus one kerf between each pair of adjacent parts.
func (c CutList) UsedLength(parts []Part, blade Length) Length {
	used := Length{}
	for _, pi := range c.PartIndices {
		used = used.Add(parts[pi].Length)
	}
	if n := len(c.PartIndices); n > 1 {
		used = used.Add(blade.Mul(int64(n - 1)))
	}
	return used
}

// Offcut returns what is left of one supply piece after this pattern.
func (c CutList) Offcut(supplies []Supply, parts []Part, blade Length) Length {
	return supplies[c.SupplyIndex].Length.Sub(c.UsedLength(parts, blade))
}

// SubSolution is the cut plan for one material. It carries the supplies
// and parts it was solved from so indices can be resolved without the
// original problem.
type SubSolution struct {
	CutLists   []CutList `json:"cut_lists"`
	Supplies   []Supply  `json:"supplies"`
	Parts      []Part    `json:"parts"`
	BladeWidth Length    `json:"blade_width"`
}

// Solution is the result of a full solve. It is never modified once
// returned.
type Solution map[Material]SubSolution

// Materials returns the solution's materials sorted by name.
func (s Solution) Materials() []Material {
	return sortedMaterials(s)
}

func sortedMaterials[V any](m map[Material]V) []Material {
	materials := make([]Material, 0, len(m))
	for mat := range m {
		materials = append(materials, mat)
	}
	sort.Slice(materials, func(i, j int) bool {
		return materials[i].Name < materials[j].Name
	})
	return materials
}
