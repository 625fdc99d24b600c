package engagement

import (
	"context"
	"errors"
)

// ErrNoData is returned when a provider has no price for a symbol in the requested range.
var ErrNoData = errors.New("no price data")

// PriceProvider is a source of daily adjusted close prices.
type PriceProvider interface {
	// AdjustedClose returns the adjusted close price history of each symbol between from and to (both included).
	//
	// It is a single logical batch: an error for any symbol fails the whole call.
	AdjustedClose(ctx context.Context, symbols []string, from, to Date) (map[string]*Series, error)
}
