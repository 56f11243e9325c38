package collector

import (
	"context"
	"time"

	"github.com/phuslu/log"

	"stockreport/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Series maps a symbol to its full history; Errors forces a failure.
type MockFetcher struct {
	Series map[string][]model.OHLCV
	Errors map[string]error
	Now    func() time.Time
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, symbol string, r model.TimeRange) ([]model.OHLCV, error) {
	m.Calls++
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return filterFrom(m.Series[symbol], r, now()), nil
}

// GenerateBars builds count synthetic daily bars ending at end.
func GenerateBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + float64(i%7)*25000,
		}
	}
	return bars
}

// Collector fetches one series per timeframe for a symbol.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches every timeframe independently. Fetch failures are logged
// and yield an empty series; they are never returned.
func (c *Collector) Collect(ctx context.Context, symbol string, timeframes []model.Timeframe) []model.Series {
	out := make([]model.Series, 0, len(timeframes))
	for _, tf := range timeframes {
		bars, err := c.Fetcher.FetchDaily(ctx, symbol, tf.Range)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Str("timeframe", tf.Key).
				Str("source", c.Fetcher.Name()).Msg("fetch failed, using empty series")
			bars = nil
		}
		out = append(out, model.Series{Symbol: symbol, Timeframe: tf, Bars: bars})
	}
	return out
}
