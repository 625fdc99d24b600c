package renderer

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/etnz/engagement"
)

// Now is the current time used in reports.
// It is read from ERS_TESTING_NOW when set, so that tests get a stable output.
func Now() time.Time {
	if os.Getenv("ERS_TESTING_NOW") != "" {
		t, err := time.Parse("2006-01-02 15:04:05", os.Getenv("ERS_TESTING_NOW"))
		if err != nil {
			panic(err)
		}
		return t
	}
	return time.Now()
}

// Report is the backtest data prepared for rendering.
type Report struct {
	AsOf       string                `json:"asOf"`
	Range      engagement.Range      `json:"range"`
	Benchmark  string                `json:"benchmark"`
	TopN       int                   `json:"topN"`
	Ties       string                `json:"ties"`
	Thresholds engagement.Thresholds `json:"thresholds"`

	Days      int                `json:"days"`
	Strategy  engagement.Percent `json:"strategy"`
	Reference engagement.Percent `json:"reference"`
	Excess    engagement.Percent `json:"excess"`

	Universe int      `json:"universe"` // symbols passing the thresholds
	Excluded []string `json:"excluded"` // symbols without prices

	Months []MonthReport `json:"months"`
}

// MonthReport is one holding month of the backtest.
type MonthReport struct {
	Month     string             `json:"month"`
	Symbols   []string           `json:"symbols"`
	Days      int                `json:"days"`
	Strategy  engagement.Percent `json:"strategy"`
	Reference engagement.Percent `json:"reference"`
}

// Held joins the symbols held during the month.
func (m MonthReport) Held() string { return strings.Join(m.Symbols, ", ") }

// NewReport extracts the Report of a backtest.
func NewReport(bt *engagement.Backtest, universe []string) *Report {
	cfg := bt.Config
	r := &Report{
		AsOf:       Now().Format("2006-01-02 15:04:05"),
		Range:      cfg.Range(),
		Benchmark:  cfg.Benchmark,
		TopN:       cfg.TopN,
		Ties:       string(cfg.Ties),
		Thresholds: cfg.Thresholds,
		Universe:   len(universe),
	}
	for _, symbol := range universe {
		if !slices.Contains(bt.Valid, symbol) {
			r.Excluded = append(r.Excluded, symbol)
		}
	}

	perf := bt.Performance
	r.Days = len(perf.Rows)
	strategy, reference := perf.Final()
	r.Strategy, r.Reference = engagement.PercentOf(strategy), engagement.PercentOf(reference)
	r.Excess = r.Strategy - r.Reference

	for start, symbols := range bt.Selection.All() {
		window := engagement.Monthly.Range(start)
		p, b := engagement.NewSeries(perf.Location), engagement.NewSeries(perf.Location)
		for _, row := range perf.Rows {
			if window.Contains(row.Date) {
				_ = p.Push(row.Date, row.Portfolio)
				_ = b.Push(row.Date, row.Benchmark)
			}
		}
		m := MonthReport{Month: window.Identifier(), Symbols: symbols, Days: p.Len()}
		_, pc, _ := engagement.Cumulative(p).Latest()
		_, bc, _ := engagement.Cumulative(b).Latest()
		m.Strategy, m.Reference = engagement.PercentOf(pc), engagement.PercentOf(bc)
		r.Months = append(r.Months, m)
	}
	return r
}
