package engagement

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/rs/zerolog/log"
)

// LogReturns returns the daily log returns of prices: ln(p[t]) - ln(p[t-1]).
//
// The first price has no predecessor and yields no return. Timezone metadata is preserved.
func LogReturns(prices *Series) *Series {
	returns := NewSeries(prices.Location)
	prev := math.NaN()
	first := true
	for on, p := range prices.Values() {
		if !first {
			// points come in increasing order, Push cannot fail.
			_ = returns.Push(on, math.Log(p)-math.Log(prev))
		}
		prev, first = p, false
	}
	return returns
}

// Matrix holds the daily returns of several symbols (date x symbol).
type Matrix struct {
	columns map[string]*Series
}

// NewMatrix returns a Matrix over the given columns.
func NewMatrix(columns map[string]*Series) *Matrix {
	m := &Matrix{columns: make(map[string]*Series, len(columns))}
	for symbol, s := range columns {
		m.columns[symbol] = s
	}
	return m
}

// Column returns the returns of symbol.
func (m *Matrix) Column(symbol string) (*Series, bool) {
	s, ok := m.columns[symbol]
	return s, ok
}

// Symbols returns the sorted column names.
func (m *Matrix) Symbols() []string {
	symbols := make([]string, 0, len(m.columns))
	for symbol := range m.columns {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	return symbols
}

// FetchReturns downloads adjusted close prices for symbols in a single batch and turns them into log returns.
//
// Any provider error is returned as is: there is no partial result.
func FetchReturns(ctx context.Context, p PriceProvider, symbols []string, r Range) (*Matrix, error) {
	if len(symbols) == 0 {
		return NewMatrix(nil), nil
	}
	prices, err := p.AdjustedClose(ctx, symbols, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("downloading prices for %d symbols: %w", len(symbols), err)
	}
	columns := make(map[string]*Series, len(prices))
	for symbol, s := range prices {
		columns[symbol] = LogReturns(s)
	}
	log.Debug().Int("symbols", len(columns)).Msg("returns downloaded")
	return NewMatrix(columns), nil
}

// FetchBenchmark downloads the daily log returns of the benchmark symbol.
func FetchBenchmark(ctx context.Context, p PriceProvider, symbol string, r Range) (*Series, error) {
	prices, err := p.AdjustedClose(ctx, []string{symbol}, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("downloading benchmark %s: %w", symbol, err)
	}
	s, ok := prices[symbol]
	if !ok || s.Len() == 0 {
		return nil, fmt.Errorf("downloading benchmark %s in %s: %w", symbol, r, ErrNoData)
	}
	return LogReturns(s), nil
}
