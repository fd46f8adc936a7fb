// Package cmd implements the rets command line tool.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/returns"
	"github.com/etnz/returns/config"
	"github.com/etnz/returns/table"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands are the subcommands of the tool, registered by the main package.
var Commands = []subcommands.Command{
	&panelCmd{},
	&pricesCmd{},
	&returnsCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultFile, "Path to the YAML configuration file")

// Verbose enables debug logging.
var Verbose = flag.Bool("v", false, "Log debug messages")

// setup loads the configuration and builds the logger of one invocation.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg.Log, *Verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newLogger builds a logger writing to stderr.
func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level.SetLevel(zap.DebugLevel)
	}
	zc.Level = level
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func newLoader(cfg *config.Config, log *zap.Logger) *returns.Loader {
	return &returns.Loader{PriceColumns: cfg.Prices.Columns, Logger: log}
}

// openTable decodes the table stored at path.
func openTable(path string, cfg config.InputConfig) (*table.Table, error) {
	return table.Open(path, table.Options{
		Comma:    cfg.CommaRune(),
		Sheet:    cfg.Sheet,
		JSONPath: cfg.JSONPath,
	})
}

// splitTickers returns the comma separated tickers of list, without blanks.
func splitTickers(list string) []string {
	var tickers []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// printMarkdown renders md for the terminal on stdout.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
