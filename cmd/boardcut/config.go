package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/piwi3910/BoardCut/internal/config"
)

// runConfig shows the effective configuration, or saves it to a file so it
// can be edited.
func runConfig(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("config", "[file]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch fs.NArg() {
	case 0:
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(e.cfg)
	case 1:
		if err := config.Save(fs.Arg(0), e.cfg); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Wrote %s\n", fs.Arg(0))
		return nil
	default:
		fs.Usage()
		return errUsage
	}
}
