package engagement

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"time"
)

// ErrNotIncreasing is returned when a point is pushed at or before the last date of a Series.
var ErrNotIncreasing = errors.New("series dates must be strictly increasing")

// Series stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
//
// Location carries the timezone metadata of the series index: nil means the
// series is timezone-naive, otherwise dates are calendar days in that location.
type Series struct {
	Location *time.Location

	days   []Date
	values []float64
}

// NewSeries returns an empty Series with the given timezone metadata.
func NewSeries(loc *time.Location) *Series { return &Series{Location: loc} }

// Len returns the number of items in the series.
func (s *Series) Len() int { return len(s.days) }

// IsAware reports whether the series carries timezone metadata.
func (s *Series) IsAware() bool { return s.Location != nil }

// index returns the position of day, and whether it was found.
func (s *Series) index(day Date) (int, bool) {
	return slices.BinarySearchFunc(s.days, day, Date.Compare)
}

// Set adds a point to the series, keeping it sorted.
//
// Existing value at that date is overwritten.
func (s *Series) Set(on Date, v float64) *Series {
	i, found := s.index(on)
	if found {
		// the last write wins.
		s.values[i] = v
		return s
	}
	s.days = slices.Insert(s.days, i, on)
	s.values = slices.Insert(s.values, i, v)
	return s
}

// Push appends a point after the last one. It returns ErrNotIncreasing if 'on' is not after the latest date.
func (s *Series) Push(on Date, v float64) error {
	if last, _, ok := s.Latest(); ok && !on.After(last) {
		return fmt.Errorf("cannot push %s after %s: %w", on, last, ErrNotIncreasing)
	}
	s.days = append(s.days, on)
	s.values = append(s.values, v)
	return nil
}

// Latest returns the latest date and value in the series.
func (s *Series) Latest() (day Date, value float64, ok bool) {
	last := len(s.days) - 1
	if last < 0 {
		return Date{}, math.NaN(), false
	}
	return s.days[last], s.values[last], true
}

// Get returns the value at 'day' and true or NaN and false.
func (s *Series) Get(day Date) (float64, bool) {
	if i, found := s.index(day); found {
		return s.values[i], true
	}
	return math.NaN(), false
}

// Values returns an iterator over all date/value pairs in the series, in chronological order.
func (s *Series) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}

// Between returns an iterator over the points within r (bounds included).
func (s *Series) Between(r Range) iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		i, _ := s.index(r.From)
		for ; i < len(s.days) && !s.days[i].After(r.To); i++ {
			if !yield(s.days[i], s.values[i]) {
				return
			}
		}
	}
}

// Dates returns a copy of the series dates.
func (s *Series) Dates() []Date { return slices.Clone(s.days) }

// Floats returns a copy of the series values.
func (s *Series) Floats() []float64 { return slices.Clone(s.values) }

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	return &Series{Location: s.Location, days: slices.Clone(s.days), values: slices.Clone(s.values)}
}

// Localize returns a copy of a naive series labelled with loc.
// Calendar days are kept as they are, like a tz_localize of midnight timestamps.
// It fails on a series that is already timezone-aware.
func (s *Series) Localize(loc *time.Location) (*Series, error) {
	if s.IsAware() {
		return nil, fmt.Errorf("series is already localized in %s", s.Location)
	}
	c := s.Clone()
	c.Location = loc
	return c, nil
}
