package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/engagement"
	"github.com/etnz/engagement/chart"
	"github.com/etnz/engagement/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type backtestCmd struct {
	chart      string
	html       string
	skipMonths bool
}

func (*backtestCmd) Name() string { return "backtest" }
func (*backtestCmd) Synopsis() string {
	return "run the engagement ratio strategy and compare it to the benchmark"
}
func (*backtestCmd) Usage() string {
	return `ers backtest [-chart <file.pdf>] [-html <file.html>] [-skip-months]

  Builds the monthly selection from the engagement file, downloads the prices
  of the symbols and of the benchmark, composes the portfolio daily returns and
  compares their cumulative return to the benchmark.

  The cumulative return chart is written as a PDF file, and the report is
  printed on the standard output.
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.chart, "chart", "backtest.pdf", "Path of the PDF chart. Empty to skip the chart.")
	f.StringVar(&c.html, "html", "", "Path of an HTML copy of the report.")
	f.BoolVar(&c.skipMonths, "skip-months", false, "Do not report the monthly holdings.")
}

func (c *backtestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	records, err := DecodeRecords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := NewProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	bt, err := engagement.Run(ctx, cfg, records, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running backtest: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.chart != "" {
		if err := writeChart(c.chart, bt.Performance); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Info().Str("file", c.chart).Msg("chart written")
	}

	report := renderer.NewReport(bt, engagement.Symbols(engagement.Filter(records, cfg.Thresholds)))
	output := renderer.RenderReport(report, renderer.ReportRenderOptions{SkipMonths: c.skipMonths})

	if c.html != "" {
		page, err := renderer.HTML("Engagement Ratio Backtest", output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.html, page, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing html report: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(output)
	return subcommands.ExitSuccess
}

func writeChart(path string, perf *engagement.Performance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chart.Render(f, perf, chart.Options{}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
