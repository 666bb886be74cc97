package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/BoardCut/internal/engine"
	"github.com/piwi3910/BoardCut/internal/export"
	"github.com/piwi3910/BoardCut/internal/logger"
	"github.com/piwi3910/BoardCut/internal/model"
	"github.com/piwi3910/BoardCut/internal/project"
)

// loaded is a project file ready to solve.
type loaded struct {
	project project.Project
	problem model.Problem
	unit    model.Unit
	alg     model.Algorithm
}

// loadProject reads path, rejects projects demanding more than maxUnits
// part units and applies the -algorithm and -unit overrides.
func loadProject(path, algorithm, unit string, maxUnits int) (loaded, error) {
	p, err := project.Load(path)
	if err != nil {
		return loaded{}, err
	}
	problem, err := p.Problem()
	if err != nil {
		return loaded{}, err
	}
	if err := problem.ValidateUnits(maxUnits); err != nil {
		return loaded{}, err
	}

	l := loaded{project: p, problem: problem, unit: p.Unit, alg: p.Algorithm}
	if algorithm != "" {
		if l.alg, err = model.ParseAlgorithm(algorithm); err != nil {
			return loaded{}, err
		}
	}
	if unit != "" {
		if l.unit, err = model.ParseUnit(unit); err != nil {
			return loaded{}, err
		}
	}
	return l, nil
}

func runSolve(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("solve", "project.json")
	algorithm := fs.String("algorithm", "", "greedy or genetic (default from the project)")
	unit := fs.String("unit", "", "display unit: m, cm, in or ft-in (default from the project)")
	reportPath := fs.String("o", "", "write the JSON report to `file`")
	pdfPath := fs.String("pdf", "", "write a PDF cut plan to `file`")
	labelsPath := fs.String("labels", "", "write PDF part labels to `file`")
	xlsxPath := fs.String("xlsx", "", "write an Excel workbook to `file`")
	dxfPath := fs.String("dxf", "", "write a DXF drawing to `file`")
	progress := fs.Bool("progress", false, "show progress on stderr")
	offcuts := fs.String("save-offcuts", "", "add offcuts at least this `long` (display unit) to the inventory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	l, err := loadProject(fs.Arg(0), *algorithm, *unit, e.cfg.MaxUnits)
	if err != nil {
		return err
	}
	strategy, err := engine.StrategyFor(l.alg, e.cfg.GeneticConfig())
	if err != nil {
		return err
	}
	solver := engine.New(strategy, engine.WithLogger(logger.Component("solve")))

	solution, err := solveWithProgress(ctx, e, solver, l.problem, *progress)
	if err != nil {
		return err
	}
	printSolution(e.stdout, solution, l.unit)

	writers := []struct {
		path  string
		write func(string) error
	}{
		{*reportPath, func(p string) error { return project.SaveReport(p, solution) }},
		{*pdfPath, func(p string) error { return export.ExportPDF(p, solution, l.unit) }},
		{*labelsPath, func(p string) error { return export.ExportLabels(p, solution, l.unit) }},
		{*xlsxPath, func(p string) error { return export.ExportXLSX(p, solution, l.unit) }},
		{*dxfPath, func(p string) error { return export.ExportDXF(p, solution, l.unit) }},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := w.write(w.path); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
		fmt.Fprintf(e.stdout, "Wrote %s\n", w.path)
	}

	if *offcuts != "" {
		minLength, err := l.unit.ParseLengthIn(*offcuts)
		if err != nil {
			return fmt.Errorf("invalid offcut length: %w", err)
		}
		return saveOffcuts(e, solution, minLength, l.unit)
	}
	return nil
}

// solveWithProgress runs the solve on a background goroutine when show is
// set and renders its progress messages on stderr.
func solveWithProgress(ctx context.Context, e *env, solver *engine.Solver, problem model.Problem, show bool) (model.Solution, error) {
	if !show {
		return solver.Solve(ctx, problem, nil)
	}

	ch := engine.Run(ctx, solver, problem, e.cfg.ProgressBuffer)
	defer ch.Close()

	overall := 0.0
	for msg := range ch.Messages() {
		switch msg.Kind {
		case engine.KindProgress:
			overall = msg.Fraction
			fmt.Fprintf(e.stderr, "\rSolving %3.0f%%                ", overall*100)
		case engine.KindSubProgress:
			fmt.Fprintf(e.stderr, "\rSolving %3.0f%% (material %3.0f%%)", overall*100, msg.Fraction*100)
		case engine.KindResults:
			fmt.Fprintln(e.stderr)
			return msg.Solution, msg.Err
		}
	}
	fmt.Fprintln(e.stderr)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("solve ended without a result")
}

// printSolution writes a plain-text cut plan.
func printSolution(w io.Writer, solution model.Solution, unit model.Unit) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, mat := range solution.Materials() {
		sub := solution[mat]
		fmt.Fprintf(tw, "%s\n", mat.Name)
		for _, cl := range sub.CutLists {
			supply := sub.Supplies[cl.SupplyIndex]
			cuts := make([]string, len(cl.PartIndices))
			for i, pi := range cl.PartIndices {
				p := sub.Parts[pi]
				cuts[i] = fmt.Sprintf("%s %s", p.Name, unit.Format(p.Length, 2))
			}
			fmt.Fprintf(tw, "  %d x\t%s (%s)\t%s\toffcut %s\n",
				cl.Quantity, supply.Name, unit.Format(supply.Length, 2),
				strings.Join(cuts, " | "),
				unit.Format(cl.Offcut(sub.Supplies, sub.Parts, sub.BladeWidth), 2))
		}
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shopping list:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, line := range export.ShoppingList(solution) {
		fmt.Fprintf(tw, "  %d x\t%s\t%s\t%s\n", line.Quantity, line.Supply.Name, line.Material, line.Subtotal().StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total price: %s (%d pieces)\n", model.TotalPrice(solution).StringFixed(2), model.PiecesUsed(solution))
}

func saveOffcuts(e *env, solution model.Solution, minLength model.Length, unit model.Unit) error {
	found := model.DetectOffcuts(solution, minLength)
	if len(found) == 0 {
		fmt.Fprintln(e.stdout, "No offcuts to save")
		return nil
	}
	inv, err := project.LoadInventory(e.cfg.InventoryPath)
	if err != nil {
		return err
	}
	for _, o := range found {
		for i := 0; i < o.Count; i++ {
			inv.Supplies = append(inv.Supplies, o.ToSupplyPreset())
		}
		fmt.Fprintf(e.stdout, "Saved %d offcut(s) of %s %s\n", o.Count, o.Material, unit.Format(o.Length, 2))
	}
	return project.SaveInventory(e.cfg.InventoryPath, inv)
}

func runCompare(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("compare", "project.json")
	algorithm := fs.String("algorithm", "", "current algorithm (default from the project)")
	unit := fs.String("unit", "", "display unit (default from the project)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	l, err := loadProject(fs.Arg(0), *algorithm, *unit, e.cfg.MaxUnits)
	if err != nil {
		return err
	}

	scenarios := engine.BuildDefaultScenarios(l.alg, e.cfg.GeneticConfig(), l.problem)
	results, err := engine.CompareScenarios(ctx, scenarios, l.problem, engine.WithLogger(logger.Component("compare")))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tPrice\tPieces\tWaste\t")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t\n", r.Scenario.Name, r.TotalPrice.StringFixed(2), r.PiecesUsed, l.unit.Format(r.Waste, 2))
	}
	return tw.Flush()
}
