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

type signalCmd struct {
	top  int
	ties string
}

func (*signalCmd) Name() string     { return "signal" }
func (*signalCmd) Synopsis() string { return "display the monthly engagement ranking and selection" }
func (*signalCmd) Usage() string {
	return `ers signal [-top <n>] [-ties keep-ties|truncate]

  Filters the engagement records, ranks symbols by their mean engagement ratio
  every month and displays the symbols held the following month.
  It does not need any price.
`
}

func (c *signalCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.top, "top", 0, "Number of symbols held every month (overrides the configuration).")
	f.StringVar(&c.ties, "ties", "", "Tie policy, keep-ties or truncate (overrides the configuration).")
}

func (c *signalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.top > 0 {
		cfg.TopN = c.top
	}
	if c.ties != "" {
		cfg.Ties = engagement.TiePolicy(c.ties)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	records, err := DecodeRecords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	aggs, sel := engagement.Signal(records, cfg)
	printMarkdown(renderer.SignalMarkdown(aggs, sel, cfg.TopN))
	return subcommands.ExitSuccess
}
