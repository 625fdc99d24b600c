package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/engagement"
	"github.com/etnz/engagement/renderer"
	"github.com/google/subcommands"
)

type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check which symbols have prices in the backtest range" }
func (*validateCmd) Usage() string {
	return `ers validate [<symbol>...]

  Checks that each symbol has prices in the backtest range. Without argument,
  every symbol of the engagement file passing the thresholds is checked.
  Exits with a failure if any symbol is excluded.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {}

func (c *validateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	symbols := f.Args()
	if len(symbols) == 0 {
		records, err := DecodeRecords()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		symbols = engagement.Symbols(engagement.Filter(records, cfg.Thresholds))
	}

	p, err := NewProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	valid, errs := engagement.CheckTickers(ctx, p, symbols, cfg.Range())
	printMarkdown(renderer.ValidationMarkdown(symbols, valid, errs))
	if len(errs) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
