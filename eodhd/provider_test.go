package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/engagement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves canned EODHD payloads by path.
func newTestServer(t *testing.T, payloads map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") != "test-key" {
			http.Error(w, "Unauthenticated", http.StatusUnauthorized)
			return
		}
		payload, ok := payloads[r.URL.Path]
		if !ok {
			http.Error(w, "Ticker Not Found.", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProvider_AdjustedClose(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/eod/MCD.US": `[
			{"date":"2021-01-04","open":214.1,"close":213.5,"adjusted_close":200.25,"volume":10},
			{"date":"2021-01-05","open":213.0,"close":215.0,"adjusted_close":201.5,"volume":12}
		]`,
		"/eod/SAP.XETRA": `[{"date":"2021-01-04","adjusted_close":100}]`,
	})
	p := New("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRateLimit(100))

	from, to := engagement.NewDate(2021, 1, 1), engagement.NewDate(2021, 1, 31)
	prices, err := p.AdjustedClose(context.Background(), []string{"MCD", "SAP.XETRA"}, from, to)
	require.NoError(t, err)
	require.Len(t, prices, 2)

	mcd := prices["MCD"]
	require.NotNil(t, mcd)
	assert.False(t, mcd.IsAware(), "eodhd series are timezone-naive")
	assert.Equal(t, 2, mcd.Len())
	v, ok := mcd.Get(engagement.NewDate(2021, 1, 5))
	assert.True(t, ok)
	assert.InDelta(t, 201.5, v, 1e-9)

	assert.Equal(t, 1, prices["SAP.XETRA"].Len())
}

func TestProvider_AdjustedCloseFailsTheBatch(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/eod/MCD.US": `[{"date":"2021-01-04","adjusted_close":200}]`,
	})
	p := New("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := p.AdjustedClose(context.Background(), []string{"MCD", "NOPE"}, engagement.NewDate(2021, 1, 1), engagement.NewDate(2021, 1, 31))
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "want an APIError, got %v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/eod/NOPE.US", apiErr.Endpoint)
}

func TestProvider_RateLimitHonoursContext(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := New("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRateLimit(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.AdjustedClose(ctx, []string{"MCD"}, engagement.NewDate(2021, 1, 1), engagement.NewDate(2021, 1, 31))
	assert.Error(t, err)
	assert.Zero(t, calls, "no request is sent once the context is done")
}

func TestProvider_Validation(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/eod/MCD.US":   `[{"date":"2021-01-04","adjusted_close":200}]`,
		"/eod/EMPTY.US": `[]`,
	})
	p := New("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	rng := engagement.NewRange(engagement.NewDate(2021, 1, 1), engagement.NewDate(2021, 1, 31))

	valid := engagement.ValidTickers(context.Background(), p, []string{"MCD", "EMPTY", "GONE"}, rng)
	assert.Equal(t, []string{"MCD"}, valid)

	err := engagement.ValidateTicker(context.Background(), p, "EMPTY", rng)
	assert.ErrorIs(t, err, engagement.ErrNoData)
}

func TestProvider_Ticker(t *testing.T) {
	testCases := []struct {
		name   string
		opts   []Option
		symbol string
		want   string
	}{
		{"Default exchange", nil, "AAPL", "AAPL.US"},
		{"Explicit exchange", nil, "SAP.XETRA", "SAP.XETRA"},
		{"Custom default", []Option{WithExchange("F")}, "NVD", "NVD.F"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := New("key", tc.opts...).Ticker(tc.symbol); got != tc.want {
				t.Errorf("Ticker(%q) = %q, want %q", tc.symbol, got, tc.want)
			}
		})
	}
}

func TestDiskCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[{"date":"2021-01-04","adjusted_close":1}]`))
	}))
	defer srv.Close()

	p := New("test-key", WithBaseURL(srv.URL), WithCacheDir(t.TempDir()))
	for i := 0; i < 3; i++ {
		_, err := p.AdjustedClose(context.Background(), []string{"X"}, engagement.NewDate(2021, 1, 1), engagement.NewDate(2021, 1, 2))
		require.NoError(t, err)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1 (cached)", calls)
	}
}
