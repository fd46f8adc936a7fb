package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/returns"
	"github.com/etnz/returns/date"
	"github.com/etnz/returns/renderer"
	"github.com/google/subcommands"
)

// panelCmd holds the flags for the 'panel' subcommand.
type panelCmd struct {
	prices    string
	returns   string
	tickers   string
	format    string
	precision int
	output    string
	from      string
	to        string
	raw       bool
	summary   bool
}

func (*panelCmd) Name() string     { return "panel" }
func (*panelCmd) Synopsis() string { return "build the returns panel of a list of tickers" }
func (*panelCmd) Usage() string {
	return `rets panel -prices <file> -returns <file> [-tickers a,b] [-format csv|jsonl|markdown] [-precision n] [-from date] [-to date] [-o file] [<ticker>...]

  Reconciles the price table and the return table into one returns panel:
  one row per date where the market return is known, one column per
  requested ticker, and the market column "mkt" last.

  A ticker found in the price table gets its returns from the prices only.
  Other tickers get them from the return table.

  Tickers can be given with -tickers, as arguments, or both.

Usage Examples:
$ rets panel -prices prices.csv -returns returns.csv AAPL MSFT
$ rets panel -prices prices.xlsx -returns returns.json -format markdown -summary AAPL
`
}

func (c *panelCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prices, "prices", "", "Price table with date, ticker, adj_close and volume columns")
	f.StringVar(&c.returns, "returns", "", "Return table with date, ticker, return and volume columns")
	f.StringVar(&c.tickers, "tickers", "", "Comma separated list of tickers")
	f.StringVar(&c.format, "format", "", "Output format: csv, jsonl or markdown. Defaults to the configured format.")
	f.IntVar(&c.precision, "precision", 0, "Number of decimal places, -1 for the shortest exact form. Defaults to the configured precision.")
	f.StringVar(&c.from, "from", "", "Drop the dates before this one. See the dates topic for supported formats.")
	f.StringVar(&c.to, "to", "", "Drop the dates after this one.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown as is, without terminal rendering")
	f.BoolVar(&c.summary, "summary", false, "Append the column sources and coverage to the markdown output")
}

func (c *panelCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.prices == "" || c.returns == "" {
		fmt.Fprintln(os.Stderr, "Error: -prices and -returns are required")
		return subcommands.ExitUsageError
	}

	from, err := parseBound(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := parseBound(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	// flags explicitly set win over the configuration.
	format, precision := cfg.Output.Format, cfg.Output.Precision
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "format":
			format = c.format
		case "precision":
			precision = c.precision
		}
	})
	switch format {
	case "csv", "jsonl", "markdown":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		return subcommands.ExitUsageError
	}

	prices, err := openTable(c.prices, cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading prices %q: %v\n", c.prices, err)
		return subcommands.ExitFailure
	}
	rets, err := openTable(c.returns, cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading returns %q: %v\n", c.returns, err)
		return subcommands.ExitFailure
	}

	tickers := append(splitTickers(c.tickers), f.Args()...)
	p, err := returns.Build(ctx, newLoader(cfg, log), prices, rets, tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building panel: %v\n", err)
		return subcommands.ExitFailure
	}
	p = p.Slice(date.Range{From: from, To: to})

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	switch format {
	case "csv":
		err = returns.EncodePanelCSV(w, p, precision)
	case "jsonl":
		err = returns.EncodePanelJSONL(w, p)
	case "markdown":
		doc := renderer.PanelMarkdown(p, precision)
		if c.summary {
			doc += "\n" + renderer.SummaryMarkdown(p)
		}
		if c.output == "" && !c.raw && isTerminal(os.Stdout) {
			printMarkdown(doc)
			break
		}
		_, err = io.WriteString(w, doc)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing panel: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseBound parses an optional range bound, the zero date when text is empty.
func parseBound(text string) (date.Date, error) {
	if text == "" {
		return date.Date{}, nil
	}
	return date.Parse(text)
}
