// Package export provides functionality for exporting cut plans to
// various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BoardCut/internal/model"
)

// partColor represents an RGB color for a cut part.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// colorFor returns the color of a part index so the same part has the same
// color on every bar of a material.
func colorFor(partIndex int) partColor {
	return partColors[partIndex%len(partColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	barHeight    = 10.0
	barSpacing   = 9.0
	qtyColumn    = 18.0
)

// ExportPDF generates a PDF document of the cut plan. Each material gets
// its own pages with one bar diagram per cut list, followed by a summary
// page with the total price and the shopping list. Lengths are printed in
// unit.
func ExportPDF(path string, solution model.Solution, unit model.Unit) error {
	if model.PiecesUsed(solution) == 0 {
		return fmt.Errorf("no cut lists to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, mat := range solution.Materials() {
		sub := solution[mat]
		if len(sub.CutLists) == 0 {
			continue
		}
		renderMaterialPages(pdf, mat, sub, unit)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, solution, unit)

	return pdf.OutputFileAndClose(path)
}

// renderMaterialPages draws the bar diagrams of one material, starting a
// new page whenever the current one is full.
func renderMaterialPages(pdf *fpdf.Fpdf, mat model.Material, sub model.SubSolution, unit model.Unit) {
	longest := model.Length{}
	for _, cl := range sub.CutLists {
		if l := sub.Supplies[cl.SupplyIndex].Length; l.Cmp(longest) > 0 {
			longest = l
		}
	}
	drawWidth := pageWidth - marginLeft - marginRight - qtyColumn
	scale := drawWidth / longest.Float64()

	page := 0
	y := pageHeight
	for i, cl := range sub.CutLists {
		if y+barHeight+barSpacing > pageHeight-marginBottom {
			pdf.AddPage()
			page++
			renderMaterialHeader(pdf, mat, sub, unit, page)
			y = drawAreaTop
		}
		renderBar(pdf, sub, cl, i+1, unit, scale, y)
		y += barHeight + barSpacing
	}
}

func renderMaterialHeader(pdf *fpdf.Fpdf, mat model.Material, sub model.SubSolution, unit model.Unit, page int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := mat.Name
	if page > 1 {
		title += fmt.Sprintf(" (continued, page %d)", page)
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	single := model.Solution{mat: sub}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Cost: %s | Waste: %s | Blade: %s",
		model.PiecesUsed(single),
		model.TotalPrice(single).StringFixed(2),
		unit.Format(model.Waste(single)[mat], 2),
		unit.Format(sub.BladeWidth, 3))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// renderBar draws one cut list as a horizontal bar: parts in color, kerfs
// dark and the offcut hatched.
func renderBar(pdf *fpdf.Fpdf, sub model.SubSolution, cl model.CutList, num int, unit model.Unit, scale, y float64) {
	supply := sub.Supplies[cl.SupplyIndex]

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y-4.5)
	caption := fmt.Sprintf("#%d  %s (%s)", num, supply.Name, unit.Format(supply.Length, 2))
	pdf.CellFormat(150, 4, caption, "", 0, "L", false, 0, "")

	barW := supply.Length.Float64() * scale

	// Stock background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(marginLeft, y, barW, barHeight, "FD")

	x := marginLeft
	blade := sub.BladeWidth.Float64() * scale
	for j, pi := range cl.PartIndices {
		part := sub.Parts[pi]
		w := part.Length.Float64() * scale
		col := colorFor(pi)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, y, w, barHeight, "FD")

		if w > 12 {
			pdf.SetFont("Helvetica", "", labelFontSize(w))
			label := part.Name
			if pdf.GetStringWidth(label) > w-2 {
				label = unit.Format(part.Length, 1)
			}
			if lw := pdf.GetStringWidth(label); lw < w-2 {
				pdf.SetXY(x+(w-lw)/2, y+barHeight/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
		}
		x += w

		if j < len(cl.PartIndices)-1 && blade > 0 {
			pdf.SetFillColor(40, 40, 40)
			pdf.Rect(x, y, math.Max(blade, 0.2), barHeight, "F")
			x += blade
		}
	}

	if rest := marginLeft + barW - x; rest > 0.5 {
		drawHatchPattern(pdf, x, y, rest, barHeight)
	}

	// Quantity column
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(pageWidth-marginRight-qtyColumn+2, y+barHeight/2-3)
	pdf.CellFormat(qtyColumn-2, 6, fmt.Sprintf("x %d", cl.Quantity), "", 0, "R", false, 0, "")

	// Offcut annotation below the bar
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(marginLeft, y+barHeight+0.5)
	offcut := cl.Offcut(sub.Supplies, sub.Parts, sub.BladeWidth)
	pdf.CellFormat(150, 3.5, "Offcut: "+unit.Format(offcut, 2), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark offcut.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(150, 120, 90)
	pdf.SetLineWidth(0.15)

	spacing := 2.5
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// renderSummaryPage draws the final summary page with the shopping list.
func renderSummaryPage(pdf *fpdf.Fpdf, solution model.Solution, unit model.Unit) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Total Price", model.TotalPrice(solution).StringFixed(2)},
		{"Pieces Used", fmt.Sprintf("%d", model.PiecesUsed(solution))},
		{"Parts Cut", fmt.Sprintf("%d", countUnits(solution))},
		{"Materials", fmt.Sprintf("%d", len(solution))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Shopping List", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{55, 65, 40, 25, 30, 35}
	headers := []string{"Material", "Supply", "Length", "Qty", "Price Each", "Subtotal"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, line := range ShoppingList(solution) {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			line.Material,
			line.Supply.Name,
			unit.Format(line.Supply.Length, 2),
			fmt.Sprintf("%d", line.Quantity),
			line.Supply.Price.StringFixed(2),
			line.Subtotal().StringFixed(2),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BoardCut - Cut List Planner", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for a segment width.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 8
	case w > 20:
		return 7
	default:
		return 6
	}
}

// countUnits returns the total number of part units cut.
func countUnits(solution model.Solution) int {
	total := 0
	for _, sub := range solution {
		for _, cl := range sub.CutLists {
			total += len(cl.PartIndices) * cl.Quantity
		}
	}
	return total
}
