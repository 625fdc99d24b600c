package engagement

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// Align reconciles the timezone metadata of two return series.
//
// When exactly one series is timezone-aware, the naive one is localized to UTC; the aware one is never stripped.
// Two aware series must share the same location.
func Align(a, b *Series) (*Series, *Series, error) {
	var err error
	switch {
	case a.IsAware() && !b.IsAware():
		b, err = b.Localize(time.UTC)
	case !a.IsAware() && b.IsAware():
		a, err = a.Localize(time.UTC)
	case a.IsAware() && b.IsAware() && a.Location.String() != b.Location.String():
		err = fmt.Errorf("cannot align series in %s with series in %s", a.Location, b.Location)
	}
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Cumulative compounds daily returns: c[t] = (1+r[0])*...*(1+r[t]) - 1.
//
// It is computed as exp(cumsum(log1p(r))) - 1. A NaN return stays NaN at its own date
// and is skipped in the running sum, so it never spreads to the following days.
func Cumulative(returns *Series) *Series {
	values := returns.Floats()
	logs := make([]float64, len(values))
	for i, r := range values {
		if math.IsNaN(r) {
			continue
		}
		logs[i] = math.Log1p(r)
	}
	sums := floats.CumSum(make([]float64, len(logs)), logs)

	cumulative := NewSeries(returns.Location)
	for i, on := range returns.Dates() {
		c := math.Expm1(sums[i])
		if math.IsNaN(values[i]) {
			c = math.NaN()
		}
		_ = cumulative.Push(on, c)
	}
	return cumulative
}

// CompoundLog turns log returns back into cumulative simple returns: c[t] = exp(r[0]+...+r[t]) - 1.
//
// Applied to LogReturns(p) it gives p[t]/p[0] - 1. NaN values are handled like in Cumulative.
func CompoundLog(logReturns *Series) *Series {
	simple := NewSeries(logReturns.Location)
	for on, r := range logReturns.Values() {
		_ = simple.Push(on, math.Expm1(r))
	}
	// log1p(expm1(r)) == r, so Cumulative sums the log returns themselves.
	return Cumulative(simple)
}

// PerformanceRow is one day of the strategy versus benchmark comparison.
type PerformanceRow struct {
	Date                Date
	Portfolio           float64 // daily portfolio return
	Benchmark           float64 // daily benchmark return
	PortfolioCumulative float64
	BenchmarkCumulative float64
}

// Performance is the merged comparison table of the strategy and its benchmark.
type Performance struct {
	Benchmark string
	Location  *time.Location
	Rows      []PerformanceRow
}

// Compare aligns the portfolio and benchmark returns, keeps the dates present in both
// and compounds each column.
func Compare(portfolio, benchmark *Series) (*Performance, error) {
	portfolio, benchmark, err := Align(portfolio, benchmark)
	if err != nil {
		return nil, err
	}

	p, b := NewSeries(portfolio.Location), NewSeries(benchmark.Location)
	for on, v := range portfolio.Values() {
		if w, ok := benchmark.Get(on); ok {
			_ = p.Push(on, v)
			_ = b.Push(on, w)
		}
	}
	log.Debug().Int("portfolio", portfolio.Len()).Int("benchmark", benchmark.Len()).Int("merged", p.Len()).Msg("returns merged")

	pc, bc := Cumulative(p), Cumulative(b)
	perf := &Performance{Location: p.Location, Rows: make([]PerformanceRow, 0, p.Len())}
	pv, bv, pcv, bcv := p.Floats(), b.Floats(), pc.Floats(), bc.Floats()
	for i, on := range p.Dates() {
		perf.Rows = append(perf.Rows, PerformanceRow{
			Date:                on,
			Portfolio:           pv[i],
			Benchmark:           bv[i],
			PortfolioCumulative: pcv[i],
			BenchmarkCumulative: bcv[i],
		})
	}
	return perf, nil
}

// Final returns the last cumulative returns of the portfolio and the benchmark, NaN if the table is empty.
func (p *Performance) Final() (portfolio, benchmark float64) {
	if len(p.Rows) == 0 {
		return math.NaN(), math.NaN()
	}
	last := p.Rows[len(p.Rows)-1]
	return last.PortfolioCumulative, last.BenchmarkCumulative
}
