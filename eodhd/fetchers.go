package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/engagement"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// fetchAdjustedClose returns the daily adjusted close prices of an EODHD ticker.
// The EODHD ticker format is typically "SYMBOL.EXCHANGECODE".
func (p *Provider) fetchAdjustedClose(ctx context.Context, ticker string, from, to engagement.Date) (*engagement.Series, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json
	// [
	//
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },

	// bounds are included in the response, and time is limited to 1 year with free subscription.
	params := url.Values{}
	params.Set("fmt", "json")
	params.Set("api_token", p.apiKey)
	params.Set("from", from.String())
	params.Set("to", to.String())
	addr := fmt.Sprintf("%s/eod/%s?%s", p.baseURL, url.PathEscape(ticker), params.Encode())

	type Info struct {
		Date          engagement.Date `json:"date"`
		AdjustedClose decimal.Decimal `json:"adjusted_close"`
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// that's the payload
	content := make([]Info, 0)
	if err := jwget(ctx, p.client, addr, &content); err != nil {
		return nil, err
	}

	// EODHD dates are exchange days with no timezone.
	prices := engagement.NewSeries(nil)
	for _, info := range content {
		if !info.AdjustedClose.IsPositive() {
			// a non positive price has no log return.
			continue
		}
		prices.Set(info.Date, info.AdjustedClose.InexactFloat64())
	}
	return prices, nil
}
