package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BoardCut/internal/model"
)

func runEstimate(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("estimate", "project.json")
	supply := fs.String("supply", "", "supply `length` in the display unit (required)")
	price := fs.String("price", "0", "price per supply piece")
	blade := fs.String("blade", "", "blade width in the display unit (default from each material)")
	waste := fs.Int("waste", 10, "waste allowance in percent")
	unit := fs.String("unit", "", "display unit (default from the project)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *supply == "" {
		fs.Usage()
		return errUsage
	}

	l, err := loadProject(fs.Arg(0), "", *unit, e.cfg.MaxUnits)
	if err != nil {
		return err
	}
	supplyLength, err := l.unit.ParseLengthIn(*supply)
	if err != nil {
		return fmt.Errorf("invalid supply length: %w", err)
	}
	pricePerPiece, err := decimal.NewFromString(*price)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	var bladeOverride *model.Length
	if *blade != "" {
		b, err := l.unit.ParseLengthIn(*blade)
		if err != nil {
			return fmt.Errorf("invalid blade width: %w", err)
		}
		bladeOverride = &b
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Material\tParts\tPieces (min)\tPieces (with waste)\tCost\t")
	for _, mat := range l.problem.Materials() {
		sp := l.problem[mat]
		bw := sp.BladeWidth
		if bladeOverride != nil {
			bw = *bladeOverride
		}
		est := model.CalculatePurchaseEstimate(sp.Parts, supplyLength, bw, *waste, pricePerPiece)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t\n",
			mat.Name, l.unit.Format(est.TotalPartLength, 2),
			est.PiecesNeededMin, est.PiecesWithWaste, est.EstimatedCost.StringFixed(2))
	}
	return tw.Flush()
}
