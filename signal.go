package engagement

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Aggregate is the monthly engagement signal of one symbol.
type Aggregate struct {
	Month  Date // last day of the calendar month
	Symbol string
	Ratio  float64 // mean engagement ratio over the month
	Count  int     // number of records averaged
	Rank   float64 // 1 is the highest ratio of the month, ties share their average rank
}

// Filter returns the records accepted by t, in their original order.
func Filter(records []Record, t Thresholds) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if t.Accept(r) {
			kept = append(kept, r)
		}
	}
	log.Debug().Int("records", len(records)).Int("kept", len(kept)).Msg("engagement filter")
	return kept
}

// Symbols returns the sorted set of symbols in records.
func Symbols(records []Record) []string {
	var symbols []string
	for _, r := range records {
		symbols = append(symbols, r.Symbol)
	}
	slices.Sort(symbols)
	return slices.Compact(symbols)
}

// AggregateMonthly groups records by calendar month and symbol and averages their engagement ratio.
//
// The result is sorted by month, then symbol. Ranks are not computed, see Rank.
func AggregateMonthly(records []Record) []Aggregate {
	type key struct {
		month  Date
		symbol string
	}
	ratios := make(map[key][]float64)
	for _, r := range records {
		k := key{r.Date.EndOf(Monthly), r.Symbol}
		ratios[k] = append(ratios[k], r.Ratio())
	}

	aggs := make([]Aggregate, 0, len(ratios))
	for k, rs := range ratios {
		aggs = append(aggs, Aggregate{
			Month:  k.month,
			Symbol: k.symbol,
			Ratio:  stat.Mean(rs, nil),
			Count:  len(rs),
		})
	}
	slices.SortFunc(aggs, func(a, b Aggregate) int {
		if c := a.Month.Compare(b.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return aggs
}

// Rank sets the Rank of every aggregate within its month, by descending ratio.
//
// aggs must be sorted by month (as returned by AggregateMonthly). Equal ratios
// receive the average of the ranks they span, so two symbols tied for first both rank 1.5.
func Rank(aggs []Aggregate) {
	for start := 0; start < len(aggs); {
		end := start + 1
		for end < len(aggs) && aggs[end].Month == aggs[start].Month {
			end++
		}
		rankMonth(aggs[start:end])
		start = end
	}
}

// rankMonth assigns average ranks to the aggregates of a single month.
func rankMonth(month []Aggregate) {
	order := make([]int, len(month))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int { return cmp.Compare(month[j].Ratio, month[i].Ratio) })

	for lo := 0; lo < len(order); {
		hi := lo + 1
		for hi < len(order) && month[order[hi]].Ratio == month[order[lo]].Ratio {
			hi++
		}
		// positions lo..hi-1 hold ranks lo+1..hi, their average is:
		avg := float64(lo+1+hi) / 2
		for _, i := range order[lo:hi] {
			month[i].Rank = avg
		}
		lo = hi
	}
}

// Select builds the holding selection from ranked aggregates.
//
// With KeepTies, every symbol whose average rank is within the top n of its month is held,
// with Truncate exactly the first n in (rank, symbol) order. They are held during the following month:
// the key of the selection is the first day of the month after the signal month.
// Months without any symbol do not appear in the selection.
func Select(aggs []Aggregate, n int, ties TiePolicy) *Selection {
	sel := NewSelection()
	for start := 0; start < len(aggs); {
		end := start + 1
		for end < len(aggs) && aggs[end].Month == aggs[start].Month {
			end++
		}
		month := slices.Clone(aggs[start:end])
		start = end

		slices.SortFunc(month, func(a, b Aggregate) int {
			if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
				return c
			}
			return cmp.Compare(a.Symbol, b.Symbol)
		})

		var symbols []string
		for _, a := range month {
			if ties == Truncate {
				// strict top n in (rank, symbol) order.
				if len(symbols) == n {
					break
				}
			} else if a.Rank >= float64(n+1) {
				continue
			}
			symbols = append(symbols, a.Symbol)
		}
		if len(symbols) == 0 {
			continue
		}
		if len(symbols) > n {
			log.Info().Str("month", month[0].Month.Format("2006-01")).Strs("symbols", symbols).Msg("ties select more symbols than the top")
		}
		// month-end plus one day is the first day of the holding month.
		sel.Set(month[0].Month.Add(1), symbols)
	}
	return sel
}

// Signal runs the signal builder: filter, monthly aggregation, ranking and selection.
// It returns the ranked aggregates along with the selection for inspection.
func Signal(records []Record, cfg Config) ([]Aggregate, *Selection) {
	aggs := AggregateMonthly(Filter(records, cfg.Thresholds))
	Rank(aggs)
	return aggs, Select(aggs, cfg.TopN, cfg.Ties)
}
