// BoardCut plans how to cut linear stock (lumber, tubing, rails) into a
// list of parts at the lowest purchase price.
//
// Build:
//
//	go build -o boardcut ./cmd/boardcut
//
// Usage:
//
//	boardcut [-config file] <command> [flags] [args]
//
// Commands:
//
//	solve      solve a project file and write reports
//	compare    solve a project under several scenarios
//	estimate   quick purchase estimate for one supply length
//	import     build a project file from CSV, Excel or DXF lists
//	inventory  list, import, export, back up or restore saved supplies
//	serve      run the HTTP API
//	config     show or save the effective configuration
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/BoardCut/internal/config"
	"github.com/piwi3910/BoardCut/internal/logger"
	"github.com/piwi3910/BoardCut/internal/model"
)

// errUsage is returned after usage has been printed.
var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{"solve", "solve a project file and write reports", runSolve},
	{"compare", "solve a project under several scenarios", runCompare},
	{"estimate", "quick purchase estimate for one supply length", runEstimate},
	{"import", "build a project file from CSV, Excel or DXF lists", runImport},
	{"inventory", "list, import, export, back up or restore saved supplies", runInventory},
	{"serve", "run the HTTP API", runServe},
	{"config", "show or save the effective configuration", runConfig},
}

// env is what every command runs with.
type env struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("boardcut", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default ~/.boardcut/config.json)")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "boardcut: %v\n", err)
		return 1
	}
	logger.InitWriter(stderr, cfg.LogLevel, cfg.LogPretty)

	name, rest := fs.Arg(0), fs.Args()[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(ctx, &env{cfg: cfg, stdout: stdout, stderr: stderr}, rest)
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			return 2
		default:
			fmt.Fprintf(stderr, "boardcut %s: %v\n", name, err)
			return 1
		}
	}

	fmt.Fprintf(stderr, "boardcut: unknown command %q\n", name)
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: boardcut [-config file] <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
}

// newFlagSet returns a flag set for a command that reports errors to e.
func (e *env) newFlagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: boardcut %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// displayUnit parses name, falling back to the configured unit.
func (e *env) displayUnit(name string) (model.Unit, error) {
	if name == "" {
		return e.cfg.DisplayUnit()
	}
	return model.ParseUnit(name)
}
