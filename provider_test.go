package engagement

import (
	"context"
	"fmt"
	"time"
)

// fakeProvider serves fixed price series, restricted to the requested range.
type fakeProvider struct {
	prices map[string]*Series
	// failing symbols make the whole batch fail.
	failing map[string]bool
	calls   int
}

func (f *fakeProvider) AdjustedClose(_ context.Context, symbols []string, from, to Date) (map[string]*Series, error) {
	f.calls++
	result := make(map[string]*Series, len(symbols))
	for _, symbol := range symbols {
		if f.failing[symbol] {
			return nil, fmt.Errorf("%s: service unavailable", symbol)
		}
		s, ok := f.prices[symbol]
		if !ok {
			result[symbol] = NewSeries(nil)
			continue
		}
		sub := NewSeries(s.Location)
		for on, v := range s.Between(NewRange(from, to)) {
			sub.Set(on, v)
		}
		result[symbol] = sub
	}
	return result, nil
}

// growing returns a price series compounding daily at rate, on every day of r.
func growing(loc *time.Location, r Range, start, rate float64) *Series {
	s := NewSeries(loc)
	p := start
	for on := r.From; !on.After(r.To); on = on.Add(1) {
		s.Set(on, p)
		p *= 1 + rate
	}
	return s
}
