package engagement

import (
	"iter"
	"slices"
)

// Selection maps holding periods to the symbols held during that period.
//
// Keys are period starts, iterated in ascending order.
type Selection struct {
	starts  []Date
	symbols map[Date][]string
}

// NewSelection returns an empty Selection.
func NewSelection() *Selection {
	return &Selection{symbols: make(map[Date][]string)}
}

// Set records the symbols held from start. Existing symbols at that start are replaced.
func (s *Selection) Set(start Date, symbols []string) {
	if _, ok := s.symbols[start]; !ok {
		i, _ := slices.BinarySearchFunc(s.starts, start, Date.Compare)
		s.starts = slices.Insert(s.starts, i, start)
	}
	s.symbols[start] = slices.Clone(symbols)
}

// Get returns the symbols held from start.
func (s *Selection) Get(start Date) ([]string, bool) {
	symbols, ok := s.symbols[start]
	return slices.Clone(symbols), ok
}

// Len returns the number of holding periods.
func (s *Selection) Len() int { return len(s.starts) }

// Periods returns the holding period starts, in ascending order.
func (s *Selection) Periods() []Date { return slices.Clone(s.starts) }

// All iterates over holding period starts and their symbols, in ascending order.
func (s *Selection) All() iter.Seq2[Date, []string] {
	return func(yield func(Date, []string) bool) {
		for _, start := range s.starts {
			if !yield(start, slices.Clone(s.symbols[start])) {
				return
			}
		}
	}
}

// Symbols returns the sorted set of all symbols ever selected.
func (s *Selection) Symbols() []string {
	var all []string
	for _, symbols := range s.symbols {
		all = append(all, symbols...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}
