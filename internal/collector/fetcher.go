package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"stockreport/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDaily returns the daily bars of symbol inside r, oldest first.
	FetchDaily(ctx context.Context, symbol string, r model.TimeRange) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support. No timeout is
// set; the transport defaults apply.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Transport: transport}
}

// filterFrom keeps bars dated on or after the start of r and sorts them.
// Provider dates carry no zone, so the start is compared on wall-clock time.
func filterFrom(bars []model.OHLCV, r model.TimeRange, now time.Time) []model.OHLCV {
	start := wallClockUTC(r.Start(now))
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if !wallClockUTC(b.Time).Before(start) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func wallClockUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
