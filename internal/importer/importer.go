// Package importer provides CSV, Excel and DXF import of part and supply
// lists. It supports automatic delimiter detection, flexible column
// mapping, case-insensitive header recognition and lengths in any display
// unit.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoardCut/internal/model"
	"github.com/piwi3910/BoardCut/internal/project"
)

// Options control how cells are interpreted.
type Options struct {
	Unit     model.Unit // unit of length cells; empty means meters
	Material string     // material for rows without a material column
}

func (o Options) unit() model.Unit {
	if o.Unit == "" {
		return model.UnitMeters
	}
	return o.Unit
}

// ImportedPart is a part with the material it belongs to.
type ImportedPart struct {
	Material string
	Part     model.Part
}

// ImportedSupply is a supply with the material it belongs to.
type ImportedSupply struct {
	Material string
	Supply   model.Supply
}

// ImportResult holds the results of an import operation. Row problems are
// collected in Errors and Warnings instead of aborting the import.
type ImportResult struct {
	Parts    []ImportedPart
	Supplies []ImportedSupply
	Errors   []string
	Warnings []string
}

// Apply adds the imported rows to p, creating materials as needed.
func (r ImportResult) Apply(p *project.Project) {
	for _, ip := range r.Parts {
		m := p.Material(ip.Material)
		m.Parts = append(m.Parts, ip.Part)
	}
	for _, is := range r.Supplies {
		m := p.Material(is.Material)
		m.Supplies = append(m.Supplies, is.Supply)
	}
}

func (r *ImportResult) merge(o ImportResult) {
	r.Parts = append(r.Parts, o.Parts...)
	r.Supplies = append(r.Supplies, o.Supplies...)
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// Kind selects what a sheet or file lists.
type Kind int

const (
	KindParts Kind = iota
	KindSupplies
)

func (k Kind) String() string {
	if k == KindSupplies {
		return "supplies"
	}
	return "parts"
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	Name        int
	Length      int
	Quantity    int
	Price       int
	MaxQuantity int
	Material    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":         {"name", "label", "part", "part name", "description", "desc", "piece", "item", "supply"},
	"length":       {"length", "len", "l", "size", "cut length"},
	"quantity":     {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"price":        {"price", "cost", "unit price", "price each"},
	"max_quantity": {"max", "max quantity", "max qty", "available", "stock", "on hand", "limit"},
	"material":     {"material", "stock type", "species", "profile"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping for kind and false if no header was found.
func DetectColumns(row []string, kind Kind) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Length: -1, Quantity: -1, Price: -1, MaxQuantity: -1, Material: -1}
	set := func(idx *int, i int) {
		if *idx == -1 {
			*idx = i
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "name":
					set(&mapping.Name, i)
				case "length":
					set(&mapping.Length, i)
				case "quantity":
					set(&mapping.Quantity, i)
				case "price":
					set(&mapping.Price, i)
				case "max_quantity":
					set(&mapping.MaxQuantity, i)
				case "material":
					set(&mapping.Material, i)
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(kind), false
	}
	return mapping, true
}

// positionalMapping is used for files without a header row:
// parts are Name, Length, Quantity, Material and supplies are Name,
// Length, Price, Max quantity, Material.
func positionalMapping(kind Kind) ColumnMapping {
	if kind == KindSupplies {
		return ColumnMapping{Name: 0, Length: 1, Quantity: -1, Price: 2, MaxQuantity: 3, Material: 4}
	}
	return ColumnMapping{Name: 0, Length: 1, Quantity: 2, Price: -1, MaxQuantity: -1, Material: 3}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseLengthCell(row []string, idx int, rowLabel string, unit model.Unit) (model.Length, string) {
	s := getCell(row, idx)
	if s == "" {
		return model.Length{}, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	l, err := unit.ParseLengthIn(s)
	if err != nil {
		return model.Length{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, s)
	}
	if l.Sign() <= 0 {
		return model.Length{}, fmt.Sprintf("%s: Length must be positive", rowLabel)
	}
	return l, ""
}

func rowMaterial(row []string, mapping ColumnMapping, opts Options) string {
	if m := getCell(row, mapping.Material); m != "" {
		return m
	}
	return opts.Material
}

// parsePartRow extracts a part from a row using the given column mapping.
// Returns the part, any error message, and any warning message.
func parsePartRow(row []string, mapping ColumnMapping, rowLabel string, partCount int, opts Options) (ImportedPart, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Part %d", partCount+1)
	}

	length, errMsg := parseLengthCell(row, mapping.Length, rowLabel, opts.unit())
	if errMsg != "" {
		return ImportedPart{}, errMsg, ""
	}

	qty := 1
	var warning string
	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		warning = fmt.Sprintf("%s: Missing quantity, defaulting to 1", rowLabel)
	} else {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			return ImportedPart{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		if n < 0 {
			return ImportedPart{}, fmt.Sprintf("%s: Quantity must not be negative", rowLabel), ""
		}
		qty = n
	}

	material := rowMaterial(row, mapping, opts)
	if material == "" {
		return ImportedPart{}, fmt.Sprintf("%s: Missing material", rowLabel), ""
	}

	return ImportedPart{Material: material, Part: model.NewPart(name, length, qty)}, "", warning
}

// parseSupplyRow extracts a supply from a row. A blank price means on hand
// (free); a blank, "unlimited" or "-1" maximum means unlimited.
func parseSupplyRow(row []string, mapping ColumnMapping, rowLabel string, supplyCount int, opts Options) (ImportedSupply, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Supply %d", supplyCount+1)
	}

	length, errMsg := parseLengthCell(row, mapping.Length, rowLabel, opts.unit())
	if errMsg != "" {
		return ImportedSupply{}, errMsg, ""
	}

	var warning string
	price := decimal.Zero
	priceStr := strings.TrimLeft(getCell(row, mapping.Price), "$€£")
	if priceStr == "" {
		warning = fmt.Sprintf("%s: Missing price, treating supply as on hand", rowLabel)
	} else {
		p, err := decimal.NewFromString(priceStr)
		if err != nil {
			return ImportedSupply{}, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, priceStr), ""
		}
		if p.IsNegative() {
			return ImportedSupply{}, fmt.Sprintf("%s: Price must not be negative", rowLabel), ""
		}
		price = p
	}

	maxQty := model.Unlimited
	switch maxStr := strings.ToLower(getCell(row, mapping.MaxQuantity)); maxStr {
	case "", "unlimited", "inf", "-", "-1":
	default:
		n, err := strconv.Atoi(maxStr)
		if err != nil || n < 0 {
			return ImportedSupply{}, fmt.Sprintf("%s: Invalid max quantity '%s'", rowLabel, maxStr), ""
		}
		maxQty = n
	}

	material := rowMaterial(row, mapping, opts)
	if material == "" {
		return ImportedSupply{}, fmt.Sprintf("%s: Missing material", rowLabel), ""
	}

	return ImportedSupply{Material: material, Supply: model.NewSupply(name, length, price, maxQty)}, "", warning
}

func readCSV(path string) ([][]string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("Cannot open file: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("File is empty")
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readRecords(bytes.NewReader(data), delimiter)
	if err != nil {
		return nil, nil, err
	}
	return records, warnings, nil
}

func readRecords(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Cannot read CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("File is empty")
	}
	return records, nil
}

func importCSV(path string, kind Kind, opts Options) ImportResult {
	records, warnings, err := readCSV(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return importFromRows(records, kind, "Line", warnings, opts)
}

// ImportPartsCSV imports parts from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportPartsCSV(path string, opts Options) ImportResult {
	return importCSV(path, KindParts, opts)
}

// ImportSuppliesCSV imports supplies from a CSV file.
func ImportSuppliesCSV(path string, opts Options) ImportResult {
	return importCSV(path, KindSupplies, opts)
}

// ImportCSVFromReader imports rows of kind from a CSV reader with a known
// delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune, kind Kind, opts Options) ImportResult {
	records, err := readRecords(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return importFromRows(records, kind, "Line", nil, opts)
}

// ImportExcel imports an Excel workbook. Sheets named "Parts" and
// "Supplies" (any case) are read as such; a workbook with neither has its
// first sheet read as parts.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	named := map[Kind]string{}
	for _, s := range sheets {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "parts":
			named[KindParts] = s
		case "supplies":
			named[KindSupplies] = s
		}
	}
	if len(named) == 0 {
		named[KindParts] = sheets[0]
	}

	for _, kind := range []Kind{KindParts, KindSupplies} {
		sheet, ok := named[kind]
		if !ok {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read sheet %q: %v", sheet, err))
			continue
		}
		if len(rows) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Sheet %q is empty", sheet))
			continue
		}
		result.merge(importFromRows(rows, kind, sheet+" row", nil, opts))
	}

	return result
}

// importFromRows is the shared import logic for CSV and Excel data.
// It detects headers, maps columns, and parses each row.
func importFromRows(rows [][]string, kind Kind, rowPrefix string, initialWarnings []string, opts Options) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0], kind)
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Length")
			return result
		}
	} else if len(rows[0]) >= 2 {
		// A first row whose length cell does not parse is an unrecognized header
		if _, err := opts.unit().ParseLengthIn(getCell(rows[0], mapping.Length)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		var errMsg, warning string
		switch kind {
		case KindSupplies:
			var s ImportedSupply
			s, errMsg, warning = parseSupplyRow(row, mapping, rowLabel, len(result.Supplies), opts)
			if errMsg == "" {
				result.Supplies = append(result.Supplies, s)
			}
		default:
			var p ImportedPart
			p, errMsg, warning = parsePartRow(row, mapping, rowLabel, len(result.Parts), opts)
			if errMsg == "" {
				result.Parts = append(result.Parts, p)
			}
		}

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	return result
}
