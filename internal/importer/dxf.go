package importer

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BoardCut/internal/model"
)

// dxfPrecision is the number of decimals, in drawing units, kept from
// DXF coordinates. Lengths equal at this precision are one part.
const dxfPrecision = 3

// ImportDXF imports parts from a DXF drawing. Every LINE and every
// LWPOLYLINE (measured along its path) is one cut; cuts of equal length
// are merged into a single part with a quantity. Coordinates are in
// opts.Unit; for feet-and-inches drawings they are read as inches.
func ImportDXF(path string, opts Options) ImportResult {
	result := ImportResult{}

	if opts.Material == "" {
		result.Errors = append(result.Errors, "A material is required for DXF import")
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var lengths []float64
	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			lengths = append(lengths, distance(e.Start[:], e.End[:]))
		case *entity.LwPolyline:
			vertices := make([][]float64, len(e.Vertices))
			for i := range e.Vertices {
				vertices[i] = e.Vertices[i][:]
			}
			lengths = append(lengths, polylineLength(vertices))
		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	counts := map[string]int{}
	var order []string
	for _, l := range lengths {
		key := strconv.FormatFloat(l, 'f', dxfPrecision, 64)
		if l < math.Pow10(-dxfPrecision) {
			result.Warnings = append(result.Warnings, "Skipped zero-length entity")
			continue
		}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}
	if len(order) == 0 {
		result.Errors = append(result.Errors, "No lines found in DXF file")
		return result
	}

	// Longest first, like a cut list is usually read
	sort.SliceStable(order, func(i, j int) bool {
		a, _ := strconv.ParseFloat(order[i], 64)
		b, _ := strconv.ParseFloat(order[j], 64)
		return a > b
	})

	unit := opts.unit()
	if unit == model.UnitFeetInches {
		unit = model.UnitInches
	}
	for i, key := range order {
		l, err := unit.ParseLengthIn(key)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid length %s: %v", key, err))
			continue
		}
		result.Parts = append(result.Parts, ImportedPart{
			Material: opts.Material,
			Part:     model.NewPart(fmt.Sprintf("DXF Part %d", i+1), l, counts[key]),
		})
	}

	return result
}

func distance(a, b []float64) float64 {
	var sum float64
	for i := 0; i < len(a) && i < len(b); i++ {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func polylineLength(vertices [][]float64) float64 {
	var total float64
	for i := 1; i < len(vertices); i++ {
		total += distance(vertices[i-1], vertices[i])
	}
	return total
}
