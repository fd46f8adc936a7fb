package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns"
	"github.com/etnz/returns/config"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// loadCmd prints the canonical observations of one source table.
type loadCmd struct {
	precision int
}

// load reads the table of the first argument with the given loader method.
func (c *loadCmd) load(f *flag.FlagSet, loadFn func(*returns.Loader, string, *config.Config) ([]returns.Observation, error)) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expecting exactly one table file")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	precision := cfg.Output.Precision
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "precision" {
			precision = c.precision
		}
	})

	obs, err := loadFn(newLoader(cfg, log.With(zap.String("file", path))), path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	if err := returns.EncodeObservationsCSV(os.Stdout, obs, precision); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing observations: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "%d observations loaded from %s\n", len(obs), path)
	return subcommands.ExitSuccess
}

func (c *loadCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.precision, "precision", 0, "Number of decimal places of the returns, -1 for the shortest exact form. Defaults to the configured precision.")
}

// pricesCmd holds the flags for the 'prices' subcommand.
type pricesCmd struct{ loadCmd }

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print the returns derived from a price table" }
func (*pricesCmd) Usage() string {
	return `rets prices [-precision n] <file>

  Loads a price table and prints the derived returns as CSV with the columns
  date, ticker, return and volume. Run with -v to log the dropped rows.
`
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.load(f, func(l *returns.Loader, path string, cfg *config.Config) ([]returns.Observation, error) {
		t, err := openTable(path, cfg.Input)
		if err != nil {
			return nil, err
		}
		return l.Prices(t)
	})
}

// returnsCmd holds the flags for the 'returns' subcommand.
type returnsCmd struct{ loadCmd }

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "print the observations of a return table" }
func (*returnsCmd) Usage() string {
	return `rets returns [-precision n] <file>

  Loads a return table and prints its valid observations as CSV with the
  columns date, ticker, return and volume. Run with -v to log the dropped rows.
`
}

func (c *returnsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.load(f, func(l *returns.Loader, path string, cfg *config.Config) ([]returns.Observation, error) {
		t, err := openTable(path, cfg.Input)
		if err != nil {
			return nil, err
		}
		return l.Returns(t)
	})
}
