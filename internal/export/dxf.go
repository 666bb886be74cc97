package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/BoardCut/internal/model"
)

// DXF layer names.
const (
	layerStock  = "STOCK"
	layerCuts   = "CUTS"
	layerLabels = "LABELS"
)

// dxfBarHeight and dxfRowGap are in drawing units (millimeters).
const (
	dxfBarHeight = 40.0
	dxfRowGap    = 80.0
	dxfTextSize  = 12.0
)

// ExportDXF draws every cut list as an outlined bar in millimeters, one
// below the other: the stock outline, a tick at every cut and the part
// names above the segments. Materials are stacked in name order.
func ExportDXF(path string, solution model.Solution, unit model.Unit) error {
	if model.PiecesUsed(solution) == 0 {
		return fmt.Errorf("no cut lists to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(layerStock, color.White, table.LT_CONTINUOUS, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(layerCuts, color.Red, table.LT_CONTINUOUS, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(layerLabels, color.Cyan, table.LT_CONTINUOUS, false); err != nil {
		return err
	}

	y := 0.0
	for _, mat := range solution.Materials() {
		sub := solution[mat]
		if len(sub.CutLists) == 0 {
			continue
		}
		if err := d.ChangeLayer(layerLabels); err != nil {
			return err
		}
		if _, err := d.Text(mat.Name, 0, y, 0, dxfTextSize*1.5); err != nil {
			return err
		}
		y -= dxfRowGap

		for ci, cl := range sub.CutLists {
			if err := drawCutList(d, sub, cl, ci+1, unit, y); err != nil {
				return fmt.Errorf("cut list %d of %s: %w", ci+1, mat.Name, err)
			}
			y -= dxfBarHeight + dxfRowGap
		}
	}

	return d.SaveAs(path)
}

func drawCutList(d *drawing.Drawing, sub model.SubSolution, cl model.CutList, num int, unit model.Unit, y float64) error {
	supply := sub.Supplies[cl.SupplyIndex]
	width := mm(supply.Length)

	if err := d.ChangeLayer(layerStock); err != nil {
		return err
	}
	if err := rect(d, 0, y, width, dxfBarHeight); err != nil {
		return err
	}

	if err := d.ChangeLayer(layerLabels); err != nil {
		return err
	}
	caption := fmt.Sprintf("#%d %s x%d", num, supply.Name, cl.Quantity)
	if _, err := d.Text(caption, width+dxfTextSize, y+dxfBarHeight/2, 0, dxfTextSize); err != nil {
		return err
	}

	x := model.Length{}
	for j, pi := range cl.PartIndices {
		part := sub.Parts[pi]
		label := fmt.Sprintf("%s %s", part.Name, unit.Format(part.Length, 2))
		if err := d.ChangeLayer(layerLabels); err != nil {
			return err
		}
		if _, err := d.Text(label, mm(x)+2, y+dxfBarHeight+4, 0, dxfTextSize); err != nil {
			return err
		}

		x = x.Add(part.Length)
		if j < len(cl.PartIndices)-1 {
			x = x.Add(sub.BladeWidth)
		}
		if x.Cmp(supply.Length) >= 0 {
			break
		}
		if err := d.ChangeLayer(layerCuts); err != nil {
			return err
		}
		if _, err := d.Line(mm(x), y, 0, mm(x), y+dxfBarHeight, 0); err != nil {
			return err
		}
	}
	return nil
}

func rect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	for i := 1; i < len(corners); i++ {
		a, b := corners[i-1], corners[i]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}

// mm converts meters to millimeters for drawing coordinates.
func mm(l model.Length) float64 {
	return l.Float64() * 1000
}
