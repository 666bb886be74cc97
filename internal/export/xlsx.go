package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoardCut/internal/model"
)

const (
	cutListsSheet = "Cut Lists"
	shoppingSheet = "Shopping List"
)

// ExportXLSX writes the plan as a workbook with a "Cut Lists" sheet, one
// row per cut list, and a "Shopping List" sheet ending in the total price.
func ExportXLSX(path string, solution model.Solution, unit model.Unit) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), cutListsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(shoppingSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header := []interface{}{"Material", "Cut List", "Supply", "Supply Length", "Quantity", "Cuts", "Offcut"}
	if err := f.SetSheetRow(cutListsSheet, "A1", &header); err != nil {
		return err
	}
	row := 2
	for _, mat := range solution.Materials() {
		sub := solution[mat]
		for ci, cl := range sub.CutLists {
			supply := sub.Supplies[cl.SupplyIndex]
			cuts := make([]string, len(cl.PartIndices))
			for i, pi := range cl.PartIndices {
				p := sub.Parts[pi]
				cuts[i] = fmt.Sprintf("%s (%s)", p.Name, unit.Format(p.Length, 2))
			}
			excelRow := []interface{}{
				mat.Name,
				ci + 1,
				supply.Name,
				unit.Format(supply.Length, 2),
				cl.Quantity,
				strings.Join(cuts, ", "),
				unit.Format(cl.Offcut(sub.Supplies, sub.Parts, sub.BladeWidth), 2),
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(cutListsSheet, cell, &excelRow); err != nil {
				return err
			}
			row++
		}
	}

	header = []interface{}{"Material", "Supply", "Length", "Quantity", "Price Each", "Subtotal"}
	if err := f.SetSheetRow(shoppingSheet, "A1", &header); err != nil {
		return err
	}
	row = 2
	for _, line := range ShoppingList(solution) {
		price, _ := line.Supply.Price.Float64()
		subtotal, _ := line.Subtotal().Float64()
		excelRow := []interface{}{
			line.Material,
			line.Supply.Name,
			unit.Format(line.Supply.Length, 2),
			line.Quantity,
			price,
			subtotal,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(shoppingSheet, cell, &excelRow); err != nil {
			return err
		}
		row++
	}
	total, _ := model.TotalPrice(solution).Float64()
	cell, err := excelize.CoordinatesToCellName(5, row)
	if err != nil {
		return err
	}
	totalRow := []interface{}{"Total", total}
	if err := f.SetSheetRow(shoppingSheet, cell, &totalRow); err != nil {
		return err
	}

	return f.SaveAs(path)
}
