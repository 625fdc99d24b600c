package engagement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backtestFixture has engagement in January and February 2021 and prices until the end of March.
func backtestFixture() ([]Record, *fakeProvider, Config) {
	cfg := DefaultConfig()
	cfg.From, cfg.To = NewDate(2021, 1, 1), NewDate(2021, 4, 1)
	cfg.TopN = 2

	var records []Record
	for _, on := range []Date{NewDate(2021, 1, 12), NewDate(2021, 2, 9)} {
		records = append(records,
			rec(on, "AAA", 100, 80),
			rec(on, "BBB", 100, 60),
			rec(on, "CCC", 100, 40),
			rec(on, "GONE", 100, 90), // best ratio but no price
			rec(on, "LOW", 10, 90),   // filtered out
		)
	}

	r := cfg.Range()
	p := &fakeProvider{prices: map[string]*Series{
		"AAA": growing(nil, r, 10, 0.01),
		"BBB": growing(nil, r, 20, 0.02),
		"CCC": growing(nil, r, 30, -0.01),
		"QQQ": growing(nil, r, 300, 0.005),
	}}
	return records, p, cfg
}

func TestRun(t *testing.T) {
	records, p, cfg := backtestFixture()

	bt, err := Run(t.Context(), cfg, records, p)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, bt.Valid)
	assert.Equal(t, []Date{NewDate(2021, 2, 1), NewDate(2021, 3, 1)}, bt.Selection.Periods())
	held, _ := bt.Selection.Get(NewDate(2021, 2, 1))
	assert.Equal(t, []string{"GONE", "AAA"}, held, "selection is made before validation")

	// GONE has no returns: the portfolio holds AAA alone.
	require.Equal(t, 28+31, bt.Portfolio.Len())
	for _, v := range bt.Portfolio.Values() {
		assert.InDelta(t, math.Log(1.01), v, 1e-12)
	}

	perf := bt.Performance
	assert.Equal(t, "QQQ", perf.Benchmark)
	require.Len(t, perf.Rows, 28+31)
	assert.Equal(t, NewDate(2021, 2, 1), perf.Rows[0].Date)
	strategy, benchmark := perf.Final()
	// Daily log returns are compounded as (1+r) products.
	assert.InDelta(t, math.Pow(1+math.Log(1.01), 59)-1, strategy, 1e-9)
	assert.InDelta(t, math.Pow(1+math.Log(1.005), 59)-1, benchmark, 1e-9)
}

func TestRun_Errors(t *testing.T) {
	t.Run("Invalid config", func(t *testing.T) {
		records, p, cfg := backtestFixture()
		cfg.TopN = 0
		_, err := Run(t.Context(), cfg, records, p)
		assert.Error(t, err)
	})

	t.Run("Benchmark unavailable", func(t *testing.T) {
		records, p, cfg := backtestFixture()
		cfg.Benchmark = "NONE"
		_, err := Run(t.Context(), cfg, records, p)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("Benchmark failing", func(t *testing.T) {
		records, p, cfg := backtestFixture()
		p.failing = map[string]bool{"QQQ": true}
		_, err := Run(t.Context(), cfg, records, p)
		assert.ErrorContains(t, err, "benchmark QQQ")
	})
}

func TestRun_ToIsExclusive(t *testing.T) {
	records, p, cfg := backtestFixture()
	cfg.To = NewDate(2021, 3, 15) // prices go on until March 31

	bt, err := Run(t.Context(), cfg, records, p)
	require.NoError(t, err)

	last, _, ok := bt.Portfolio.Latest()
	require.True(t, ok)
	assert.Equal(t, NewDate(2021, 3, 14), last)
	assert.Equal(t, 28+14, bt.Portfolio.Len())
	require.Len(t, bt.Performance.Rows, 28+14)
}
