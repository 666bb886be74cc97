package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BoardCut/internal/importer"
	"github.com/piwi3910/BoardCut/internal/model"
	"github.com/piwi3910/BoardCut/internal/project"
)

func runImport(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("import", "parts-file...")
	name := fs.String("name", "Imported", "project name")
	unit := fs.String("unit", "", "unit of the length cells (default from config)")
	material := fs.String("material", "", "material for rows without a material column")
	supplies := fs.String("supplies", "", "CSV `file` of supplies")
	blade := fs.String("blade", "", "blade width of every material, in the import unit")
	stock := fs.Bool("stock", false, "add inventory presets of each material as unlimited supplies")
	out := fs.String("o", "", "write the project to `file` instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 && *supplies == "" {
		fs.Usage()
		return errUsage
	}

	u, err := e.displayUnit(*unit)
	if err != nil {
		return err
	}
	alg, err := e.cfg.SolverAlgorithm()
	if err != nil {
		return err
	}

	p := project.New(*name)
	p.Unit, p.Algorithm = u, alg
	opts := importer.Options{Unit: u, Material: *material}

	imported := 0
	for _, path := range fs.Args() {
		var result importer.ImportResult
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".tsv", ".txt":
			result = importer.ImportPartsCSV(path, opts)
		case ".xlsx", ".xlsm":
			result = importer.ImportExcel(path, opts)
		case ".dxf":
			result = importer.ImportDXF(path, opts)
		default:
			return fmt.Errorf("%s: unsupported file type", path)
		}
		imported += e.applyImport(path, result, &p)
	}
	if *supplies != "" {
		imported += e.applyImport(*supplies, importer.ImportSuppliesCSV(*supplies, opts), &p)
	}
	if imported == 0 {
		return fmt.Errorf("nothing imported")
	}

	if *blade != "" {
		bw, err := u.ParseLengthIn(*blade)
		if err != nil {
			return fmt.Errorf("invalid blade width: %w", err)
		}
		for i := range p.Materials {
			p.Materials[i].BladeWidth = bw
		}
	}
	if *stock {
		inv, err := project.LoadInventory(e.cfg.InventoryPath)
		if err != nil {
			return err
		}
		addStock(&p, inv)
	}

	if *out != "" {
		if err := project.Save(*out, p); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Wrote %s\n", *out)
		return nil
	}
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// applyImport reports problems with result on stderr, adds what was
// imported to p and returns the number of rows added.
func (e *env) applyImport(path string, result importer.ImportResult, p *project.Project) int {
	for _, w := range result.Warnings {
		fmt.Fprintf(e.stderr, "%s: warning: %s\n", path, w)
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(e.stderr, "%s: error: %s\n", path, msg)
	}
	result.Apply(p)
	return len(result.Parts) + len(result.Supplies)
}

// addStock adds the inventory presets of each project material as
// unlimited supplies, skipping names the material already lists.
func addStock(p *project.Project, inv model.Inventory) {
	for i := range p.Materials {
		m := &p.Materials[i]
		have := make(map[string]bool, len(m.Supplies))
		for _, s := range m.Supplies {
			have[s.Name] = true
		}
		for _, preset := range inv.ForMaterial(m.Name) {
			if have[preset.Name] {
				continue
			}
			m.Supplies = append(m.Supplies, preset.ToSupply(model.Unlimited))
			have[preset.Name] = true
		}
	}
}
