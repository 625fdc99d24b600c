package engagement

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Compose builds the daily return series of the equally weighted portfolio described by sel.
//
// Each holding period covers the calendar month of its start date. On every day of that month,
// the portfolio return is the mean of the returns of the selected symbols that traded that day.
// Periods with no symbol, or none present in m, contribute no day.
func Compose(sel *Selection, m *Matrix) (*Series, error) {
	portfolio := NewSeries(locationOf(m))
	for start, symbols := range sel.All() {
		window := Monthly.Range(start)

		var columns []*Series
		for _, symbol := range symbols {
			c, ok := m.Column(symbol)
			if !ok {
				log.Warn().Str("symbol", symbol).Str("period", window.Identifier()).Msg("selected symbol has no returns, skipped")
				continue
			}
			columns = append(columns, c)
		}
		if len(columns) == 0 {
			log.Info().Str("period", window.Identifier()).Msg("no symbol to hold, period skipped")
			continue
		}

		days, means := crossSectionalMean(columns, window)
		for i, on := range days {
			if err := portfolio.Push(on, means[i]); err != nil {
				return nil, fmt.Errorf("composing period %s: %w", window.Identifier(), err)
			}
		}
	}
	return portfolio, nil
}

// crossSectionalMean returns, for each day within window where at least one column has a value,
// the mean of the available values.
func crossSectionalMean(columns []*Series, window Range) ([]Date, []float64) {
	byDay := make(map[Date][]float64)
	for _, c := range columns {
		for on, v := range c.Between(window) {
			if math.IsNaN(v) {
				continue
			}
			byDay[on] = append(byDay[on], v)
		}
	}
	days := make([]Date, 0, len(byDay))
	for on := range byDay {
		days = append(days, on)
	}
	slices.SortFunc(days, Date.Compare)

	means := make([]float64, len(days))
	for i, on := range days {
		means[i] = stat.Mean(byDay[on], nil)
	}
	return days, means
}

// locationOf returns the timezone shared by the matrix columns, nil if they are naive.
func locationOf(m *Matrix) (loc *time.Location) {
	for _, symbol := range m.Symbols() {
		c, _ := m.Column(symbol)
		if c.IsAware() {
			return c.Location
		}
	}
	return nil
}
