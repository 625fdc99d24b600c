// Package yahoo implements a price provider backed by the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/engagement"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the base URL of the chart API.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// userAgent is sent with every request, the API rejects clients without one.
const userAgent = "Mozilla/5.0 (compatible; ers/1.0)"

// Provider fetches adjusted close prices from Yahoo Finance.
//
// Yahoo returns timestamps: series are timezone-aware, in UTC, and each point is dated
// with the trading day in the exchange timezone.
type Provider struct {
	BaseURL string
	Client  *http.Client
}

// New returns a Provider on the public chart API.
func New() *Provider {
	return &Provider{BaseURL: DefaultBaseURL, Client: &http.Client{Timeout: 30 * time.Second}}
}

/*
	{
	  "chart": {
	    "result": [{
	        "meta": {"symbol": "QQQ", "exchangeTimezoneName": "America/New_York", "gmtoffset": -18000, ...},
	        "timestamp": [1609770600, 1609857000],
	        "indicators": {
	          "quote": [{"close": [309.31, 311.86], ...}],
	          "adjclose": [{"adjclose": [302.60, 305.09]}]
	        }
	    }],
	    "error": null
	  }
	}
*/

// AdjustedClose implements engagement.PriceProvider, with one request per symbol.
func (p *Provider) AdjustedClose(ctx context.Context, symbols []string, from, to engagement.Date) (map[string]*engagement.Series, error) {
	result := make(map[string]*engagement.Series, len(symbols))
	for _, symbol := range symbols {
		prices, err := p.history(ctx, symbol, from, to)
		if err != nil {
			return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
		}
		result[symbol] = prices
	}
	return result, nil
}

func (p *Provider) history(ctx context.Context, symbol string, from, to engagement.Date) (*engagement.Series, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("events", "div,split")
	params.Set("period1", strconv.FormatInt(from.Time(time.UTC).Unix(), 10))
	// period2 is exclusive, add a day to include 'to'.
	params.Set("period2", strconv.FormatInt(to.Add(1).Time(time.UTC).Unix(), 10))
	addr := fmt.Sprintf("%s/%s?%s", p.BaseURL, url.PathEscape(symbol), params.Encode())

	jobj, err := p.get(ctx, addr)
	if err != nil {
		return nil, err
	}

	if desc, err := jsonpath.Get("$.chart.error.description", jobj); err == nil && desc != nil {
		return nil, fmt.Errorf("chart error: %v", desc)
	}

	loc := exchangeLocation(jobj)
	stamps, err := floatList(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		// no timestamp at all is how the API answers for an empty range.
		log.Debug().Err(err).Str("symbol", symbol).Msg("yahoo returned no timestamps")
		return engagement.NewSeries(time.UTC), nil
	}
	closes, err := floatList(jobj, "$.chart.result[0].indicators.adjclose[0].adjclose")
	if err != nil {
		return nil, err
	}
	if len(closes) != len(stamps) {
		return nil, fmt.Errorf("got %d adjusted closes for %d timestamps", len(closes), len(stamps))
	}

	prices := engagement.NewSeries(time.UTC)
	for i, ts := range stamps {
		c := closes[i]
		if math.IsNaN(c) || c <= 0 { // null or invalid
			continue
		}
		on := engagement.DateOf(time.Unix(int64(ts), 0).In(loc))
		if on.Before(from) || on.After(to) {
			continue
		}
		prices.Set(on, c)
	}
	return prices, nil
}

// get performs the request and decodes the JSON body as a generic object.
func (p *Provider) get(ctx context.Context, addr string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Str("status", resp.Status).Msg("yahoo request")

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(content, &jobj); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
		}
		return nil, fmt.Errorf("invalid chart payload: %w", err)
	}
	// a 404 still carries a chart.error object with a description, let the caller report it.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return jobj, nil
}

// exchangeLocation returns the exchange timezone declared in the chart metadata, UTC when unknown.
func exchangeLocation(jobj any) *time.Location {
	if name, err := jsonpath.Get("$.chart.result[0].meta.exchangeTimezoneName", jobj); err == nil {
		if s, ok := name.(string); ok {
			if loc, err := time.LoadLocation(s); err == nil {
				return loc
			}
		}
	}
	if offset, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		if f, ok := offset.(float64); ok {
			return time.FixedZone("exchange", int(f))
		}
	}
	return time.UTC
}

// floatList extracts a list of numbers at path. JSON nulls are returned as NaN.
func floatList(jobj any, path string) ([]float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list %v", path, jval)
	}
	values := make([]float64, len(jlist))
	for i, v := range jlist {
		switch v := v.(type) {
		case float64:
			values[i] = v
		case nil:
			values[i] = math.NaN()
		default:
			return nil, fmt.Errorf("error parsing %q: %s is not a number", path, strings.TrimSpace(fmt.Sprint(v)))
		}
	}
	return values, nil
}

var _ engagement.PriceProvider = (*Provider)(nil)
