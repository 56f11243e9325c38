package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stockreport/internal/model"
)

// DefaultAlphaVantageURL is the public Alpha Vantage endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co"

// AlphaVantageFetcher implements Fetcher using the TIME_SERIES_DAILY API in
// full-history mode, filtering client-side by date.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Now     func() time.Time
}

// NewAlphaVantageFetcher creates a fetcher with optional proxy support.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		Now:     time.Now,
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avResponse is the response shape of TIME_SERIES_DAILY. Provider notices
// arrive with an empty series and one of the message fields set.
type avResponse struct {
	TimeSeries   map[string]avBar `json:"Time Series (Daily)"`
	ErrorMessage string           `json:"Error Message"`
	Note         string           `json:"Note"`
	Information  string           `json:"Information"`
}

type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (r *avResponse) notice() string {
	switch {
	case r.ErrorMessage != "":
		return r.ErrorMessage
	case r.Note != "":
		return r.Note
	default:
		return r.Information
	}
}

func (f *AlphaVantageFetcher) FetchDaily(ctx context.Context, symbol string, r model.TimeRange) ([]model.OHLCV, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var av avResponse
	if err := json.Unmarshal(body, &av); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if len(av.TimeSeries) == 0 {
		if msg := av.notice(); msg != "" {
			return nil, fmt.Errorf("alphavantage: no data for %s: %s", symbol, msg)
		}
		return nil, nil
	}

	bars := make([]model.OHLCV, 0, len(av.TimeSeries))
	for date, d := range av.TimeSeries {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue // skip malformed keys
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   parseNumber(d.Open),
			High:   parseNumber(d.High),
			Low:    parseNumber(d.Low),
			Close:  parseNumber(d.Close),
			Volume: parseNumber(d.Volume),
		})
	}
	return filterFrom(bars, r, f.Now()), nil
}

// parseNumber reads a provider number; anything unparseable is zero.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
