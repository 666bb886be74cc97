package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/BoardCut/internal/model"
	"github.com/piwi3910/BoardCut/internal/project"
)

func runInventory(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("inventory", "list | import FILE | export FILE | backup FILE | restore FILE")
	unit := fs.String("unit", "", "display unit for list (default from config)")
	report := fs.String("report", "", "backup: include offcuts of this JSON `report`")
	minOffcut := fs.String("min", "0", "backup: shortest offcut to include, in the display unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	u, err := e.displayUnit(*unit)
	if err != nil {
		return err
	}

	path := e.cfg.InventoryPath
	inv, err := project.LoadInventory(path)
	if err != nil {
		return err
	}

	sub, rest := fs.Arg(0), fs.Args()[1:]
	if sub != "list" && len(rest) != 1 {
		fs.Usage()
		return errUsage
	}

	switch sub {
	case "list":
		tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tName\tMaterial\tLength\tPrice\t")
		for _, s := range inv.Supplies {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", s.ID, s.Name, s.Material, u.Format(s.Length, 2), s.Price.StringFixed(2))
		}
		return tw.Flush()

	case "import":
		merged, err := project.ImportInventory(rest[0], inv)
		if err != nil {
			return err
		}
		if err := project.SaveInventory(path, merged); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Imported %d preset(s)\n", len(merged.Supplies)-len(inv.Supplies))
		return nil

	case "export":
		if err := project.SaveInventory(rest[0], inv); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Exported %d preset(s) to %s\n", len(inv.Supplies), rest[0])
		return nil

	case "backup":
		var offcuts []model.Offcut
		if *report != "" {
			r, err := project.LoadReport(*report)
			if err != nil {
				return err
			}
			minLength, err := u.ParseLengthIn(*minOffcut)
			if err != nil {
				return fmt.Errorf("invalid offcut length: %w", err)
			}
			offcuts = model.DetectOffcuts(r.Solution(), minLength)
		}
		if err := project.ExportAllData(rest[0], inv, offcuts); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Backed up %d preset(s) and %d offcut(s) to %s\n", len(inv.Supplies), len(offcuts), rest[0])
		return nil

	case "restore":
		backup, err := project.ImportAllData(rest[0])
		if err != nil {
			return err
		}
		restored := backup.RestoreOffcuts(backup.Inventory)
		if err := project.SaveInventory(path, restored); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Restored %d preset(s) from backup of %s\n", len(restored.Supplies), backup.CreatedAt)
		return nil

	default:
		fs.Usage()
		return errUsage
	}
}
