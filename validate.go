package engagement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ValidateTicker checks that symbol has prices in r.
//
// It returns ErrNoData when the provider answers with an empty history, or the provider error.
func ValidateTicker(ctx context.Context, p PriceProvider, symbol string, r Range) error {
	prices, err := p.AdjustedClose(ctx, []string{symbol}, r.From, r.To)
	if err != nil {
		return fmt.Errorf("retrieving %s: %w", symbol, err)
	}
	if s, ok := prices[symbol]; !ok || s.Len() == 0 {
		return fmt.Errorf("retrieving %s in %s: %w", symbol, r, ErrNoData)
	}
	return nil
}

// CheckTickers validates each symbol on its own, in order.
//
// It returns the valid symbols and the error of every excluded one. A failing symbol is logged and
// excluded, it never aborts the batch.
func CheckTickers(ctx context.Context, p PriceProvider, symbols []string, r Range) (valid []string, excluded map[string]error) {
	valid = make([]string, 0, len(symbols))
	excluded = make(map[string]error)
	for _, symbol := range symbols {
		if err := ValidateTicker(ctx, p, symbol, r); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("excluding invalid ticker")
			excluded[symbol] = err
			continue
		}
		valid = append(valid, symbol)
	}
	log.Info().Int("symbols", len(symbols)).Int("valid", len(valid)).Msg("tickers validated")
	return valid, excluded
}

// ValidTickers returns the symbols that have prices in r, in their original order.
func ValidTickers(ctx context.Context, p PriceProvider, symbols []string, r Range) []string {
	valid, _ := CheckTickers(ctx, p, symbols, r)
	return valid
}
