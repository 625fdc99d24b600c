package engagement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Backtest holds every intermediate table of a strategy run, for inspection and reporting.
type Backtest struct {
	Config      Config
	Aggregates  []Aggregate
	Selection   *Selection
	Valid       []string // symbols with prices in the backtest range
	Portfolio   *Series  // daily portfolio returns
	Benchmark   *Series  // daily benchmark returns
	Performance *Performance
}

// Run executes the whole strategy on records: signal, ticker validation, returns download,
// portfolio composition and comparison with the benchmark.
//
// Ticker validation failures only exclude symbols. Errors while downloading returns or the
// benchmark are fatal.
func Run(ctx context.Context, cfg Config, records []Record, p PriceProvider) (*Backtest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bt := &Backtest{Config: cfg}
	bt.Aggregates, bt.Selection = Signal(records, cfg)
	log.Info().Int("records", len(records)).Int("periods", bt.Selection.Len()).Msg("signal built")

	// Every symbol of the engagement data is validated, not only the selected ones,
	// so that the validation log documents the whole universe.
	bt.Valid = ValidTickers(ctx, p, Symbols(Filter(records, cfg.Thresholds)), cfg.Range())

	matrix, err := FetchReturns(ctx, p, bt.Valid, cfg.Range())
	if err != nil {
		return nil, err
	}
	if bt.Portfolio, err = Compose(bt.Selection, matrix); err != nil {
		return nil, err
	}
	if bt.Benchmark, err = FetchBenchmark(ctx, p, cfg.Benchmark, cfg.Range()); err != nil {
		return nil, err
	}
	if bt.Performance, err = Compare(bt.Portfolio, bt.Benchmark); err != nil {
		return nil, fmt.Errorf("comparing with %s: %w", cfg.Benchmark, err)
	}
	bt.Performance.Benchmark = cfg.Benchmark

	strategy, benchmark := bt.Performance.Final()
	log.Info().Float64("strategy", strategy).Float64("benchmark", benchmark).Int("days", len(bt.Performance.Rows)).Msg("backtest done")
	return bt, nil
}
