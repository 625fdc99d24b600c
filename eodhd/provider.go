// Package eodhd implements a price provider backed by the EODHD (End of Day Historical Data) API.
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/etnz/engagement"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the EODHD API.
	DefaultBaseURL = "https://eodhd.com/api"

	// DefaultExchange is the exchange code appended to symbols that have none.
	DefaultExchange = "US"

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10
)

// Provider fetches adjusted close prices from eodhd.com.
type Provider struct {
	apiKey   string
	baseURL  string
	exchange string
	client   *http.Client
	limiter  *rate.Limiter
}

// Option configures the Provider.
type Option func(*Provider)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient sets a custom HTTP client, replacing the daily disk cache.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// WithCacheDir keeps the daily cache of HTTP responses in dir.
func WithCacheDir(dir string) Option {
	return func(p *Provider) { p.client = newDailyCachingClient(dir) }
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(p *Provider) {
		p.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithExchange sets the exchange code used for symbols without one.
func WithExchange(code string) Option {
	return func(p *Provider) { p.exchange = code }
}

// New returns a Provider using apiKey.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		exchange: DefaultExchange,
		client:   newDailyCachingClient(""),
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ticker returns the EODHD ticker of symbol, appending the default exchange when there is none.
func (p *Provider) Ticker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + "." + p.exchange
}

// AdjustedClose implements engagement.PriceProvider.
//
// EODHD has no multi-symbol history endpoint, so the batch is one request per symbol.
// The first failure aborts the batch.
func (p *Provider) AdjustedClose(ctx context.Context, symbols []string, from, to engagement.Date) (map[string]*engagement.Series, error) {
	result := make(map[string]*engagement.Series, len(symbols))
	for _, symbol := range symbols {
		prices, err := p.fetchAdjustedClose(ctx, p.Ticker(symbol), from, to)
		if err != nil {
			return nil, fmt.Errorf("eodhd %s: %w", symbol, err)
		}
		result[symbol] = prices
	}
	return result, nil
}

var _ engagement.PriceProvider = (*Provider)(nil)
