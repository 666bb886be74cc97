package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BoardCut/internal/model"
)

// Report is the JSON form of a solution with its aggregates.
type Report struct {
	TotalPrice decimal.Decimal  `json:"total_price"`
	PiecesUsed int              `json:"pieces_used"`
	Materials  []MaterialReport `json:"materials"`
}

// MaterialReport is the plan for one material. Consumption is parallel to
// Supplies.
type MaterialReport struct {
	Material    string          `json:"material"`
	BladeWidth  model.Length    `json:"blade_width"`
	Supplies    []model.Supply  `json:"supplies"`
	Parts       []model.Part    `json:"parts"`
	CutLists    []model.CutList `json:"cut_lists"`
	Consumption []int           `json:"consumption"`
	Price       decimal.Decimal `json:"price"`
	Waste       model.Length    `json:"waste"`
}

// NewReport summarizes solution, materials in name order.
func NewReport(solution model.Solution) Report {
	consumption := model.SupplyConsumption(solution)
	waste := model.Waste(solution)

	r := Report{
		TotalPrice: model.TotalPrice(solution),
		PiecesUsed: model.PiecesUsed(solution),
		Materials:  make([]MaterialReport, 0, len(solution)),
	}
	for _, mat := range solution.Materials() {
		sub := solution[mat]
		cutLists := sub.CutLists
		if cutLists == nil {
			cutLists = []model.CutList{}
		}
		r.Materials = append(r.Materials, MaterialReport{
			Material:    mat.Name,
			BladeWidth:  sub.BladeWidth,
			Supplies:    sub.Supplies,
			Parts:       sub.Parts,
			CutLists:    cutLists,
			Consumption: consumption[mat],
			Price:       model.TotalPrice(model.Solution{mat: sub}),
			Waste:       waste[mat],
		})
	}
	return r
}

// Solution rebuilds the solution the report was made from.
func (r Report) Solution() model.Solution {
	solution := make(model.Solution, len(r.Materials))
	for _, m := range r.Materials {
		solution[model.Material{Name: m.Material}] = model.SubSolution{
			CutLists:   m.CutLists,
			Supplies:   m.Supplies,
			Parts:      m.Parts,
			BladeWidth: m.BladeWidth,
		}
	}
	return solution
}

// SaveReport writes the report for solution as indented JSON.
func SaveReport(path string, solution model.Solution) error {
	return writeJSON(path, NewReport(solution))
}

// LoadReport reads a report written by SaveReport.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("failed to parse report: %w", err)
	}
	return r, nil
}
