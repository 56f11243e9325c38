package calculator

import (
	"errors"

	"github.com/phuslu/log"

	"stockreport/internal/model"
)

// ErrEmptySeries is returned when insights are requested for a series
// without bars.
var ErrEmptySeries = errors.New("empty series")

// Indicator windows.
const (
	RSIPeriod = 14
	ShortMA   = 50
	LongMA    = 200
)

// Compute derives the insight bundle for one series. Non-finite closes and
// volumes are treated as zero before any statistic is taken.
func Compute(series model.Series) (*model.Insights, error) {
	if series.Empty() {
		return nil, ErrEmptySeries
	}
	bars := series.Bars
	closes := zeroFill(series.Closes())
	volumes := zeroFill(series.Volumes())

	cs := Describe(closes)
	vs := Describe(volumes)

	in := &model.Insights{
		Timeframe: series.Timeframe,

		HighestClose: cs.Max,
		LowestClose:  cs.Min,
		AverageClose: cs.Mean,
		MedianClose:  cs.Median,
		StdDevClose:  cs.StdDev,
		RangeClose:   cs.Range,

		TotalVolume:   vs.Sum,
		MaxVolume:     vs.Max,
		MinVolume:     vs.Min,
		AverageVolume: vs.Mean,
		MedianVolume:  vs.Median,
		StdDevVolume:  vs.StdDev,
		RangeVolume:   vs.Range,
		MaxVolumeDate: bars[vs.MaxIdx].Time,
		MinVolumeDate: bars[vs.MinIdx].Time,

		StartDate:  bars[0].Time,
		EndDate:    bars[len(bars)-1].Time,
		StartPrice: closes[0],
		EndPrice:   closes[len(closes)-1],
	}
	in.PriceChange = finite(in.EndPrice - in.StartPrice)
	in.PriceChangePercent = percentChange(in.StartPrice, in.EndPrice)
	in.Classification = classifyChange(in.PriceChangePercent)

	if changes := DailyChanges(closes); len(changes) > 0 {
		ds := Describe(changes)
		in.MaxDailyGain = ds.Max
		in.MaxDailyLoss = ds.Min
		in.Volatility = ds.StdDev
	}

	in.Trend, in.TrendStrength = CalculateTrend(closes)
	in.MA50, in.MA200 = MovingAverages(closes)

	rsi, err := CalculateRSI(closes, RSIPeriod)
	if err != nil {
		log.Warn().Err(err).Str("symbol", series.Symbol).Msg("rsi calculation failed, defaulting to 50")
		rsi = NeutralRSI
	}
	in.RSI = rsi

	band, err := CalculateBollinger(closes, BollingerPeriod, BollingerWidth)
	if err != nil {
		log.Warn().Err(err).Str("symbol", series.Symbol).Msg("bollinger calculation failed")
	}
	in.UpperBB, in.MiddleBB, in.LowerBB = band.Upper, band.Middle, band.Lower

	return in, nil
}

// Overlays holds the per-index indicator series drawn on charts.
type Overlays struct {
	Closes  []float64
	Volumes []float64
	MA50    []float64
	MA50OK  []bool
	MA200   []float64
	MA200OK []bool
	Bands   []Band
	BandsOK []bool
}

// ComputeOverlays returns the zero-filled price and volume series together
// with the rolling moving averages and Bollinger bands.
func ComputeOverlays(series model.Series) Overlays {
	closes := zeroFill(series.Closes())
	o := Overlays{Closes: closes, Volumes: zeroFill(series.Volumes())}
	o.MA50, o.MA50OK = SMASeries(closes, ShortMA)
	o.MA200, o.MA200OK = SMASeries(closes, LongMA)
	o.Bands, o.BandsOK = BollingerSeries(closes, BollingerPeriod, BollingerWidth)
	return o
}
