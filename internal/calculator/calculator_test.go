package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/model"
)

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func seriesOf(closes []float64) model.Series {
	day := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: float64(1000 + 10*i),
		}
	}
	return model.Series{Symbol: "TEST", Timeframe: model.DefaultTimeframes()[1], Bars: bars}
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA(ramp(1, 1, 60), 50)
	require.NoError(t, err)
	assert.InDelta(t, 35.5, got, 1e-9)

	_, err = CalculateSMA(ramp(1, 1, 10), 50)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateSMA(ramp(1, 1, 10), 0)
	assert.Error(t, err)
}

func TestMovingAverages_ShortSeriesIsZero(t *testing.T) {
	for _, n := range []int{0, 1, 20, 49} {
		ma50, ma200 := MovingAverages(ramp(100, 1, n))
		assert.Zero(t, ma50, "n=%d", n)
		assert.Zero(t, ma200, "n=%d", n)
	}
	ma50, ma200 := MovingAverages(ramp(100, 1, 50))
	assert.InDelta(t, 124.5, ma50, 1e-9)
	assert.Zero(t, ma200)
}

func TestSMASeries(t *testing.T) {
	values, ok := SMASeries(ramp(1, 1, 5), 3)
	assert.Equal(t, []bool{false, false, true, true, true}, ok)
	assert.InDelta(t, 2.0, values[2], 1e-9)
	assert.InDelta(t, 4.0, values[4], 1e-9)

	_, ok = SMASeries(ramp(1, 1, 2), 3)
	assert.Equal(t, []bool{false, false}, ok)
}

func TestCalculateRSI(t *testing.T) {
	closes := []float64{100}
	for i := 0; i < 14; i++ {
		last := closes[len(closes)-1]
		if i%2 == 0 {
			closes = append(closes, last+2)
		} else {
			closes = append(closes, last-1)
		}
	}
	rsi, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.InDelta(t, 100-100.0/3, rsi, 1e-9)
}

func TestCalculateRSI_NeutralCases(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
	}{
		{"only gains", ramp(100, 1, 30)},
		{"flat", ramp(100, 0, 30)},
		{"too short", ramp(100, -1, 14)},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi, err := CalculateRSI(tt.closes, 14)
			require.NoError(t, err)
			assert.Equal(t, NeutralRSI, rsi)
		})
	}
}

func TestCalculateRSI_Bounded(t *testing.T) {
	inputs := [][]float64{
		ramp(200, -1, 40),
		{5, 1, 9, 2, 8, 3, 7, 4, 6, 5, 0, 10, 0, 10, 0, 10},
		append(ramp(100, 1, 20), ramp(120, -3, 20)...),
	}
	for _, closes := range inputs {
		rsi, err := CalculateRSI(closes, 14)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rsi, 0.0)
		assert.LessOrEqual(t, rsi, 100.0)
	}
	rsi, _ := CalculateRSI(ramp(200, -1, 40), 14)
	assert.Zero(t, rsi)
}

func TestCalculateBollinger(t *testing.T) {
	band, err := CalculateBollinger(ramp(1, 1, 20), 20, 2)
	require.NoError(t, err)
	std := math.Sqrt(35)
	assert.InDelta(t, 10.5, band.Middle, 1e-9)
	assert.InDelta(t, 10.5+2*std, band.Upper, 1e-9)
	assert.InDelta(t, 10.5-2*std, band.Lower, 1e-9)

	band, err = CalculateBollinger(ramp(1, 1, 19), 20, 2)
	require.NoError(t, err)
	assert.Equal(t, Band{}, band)
}

func TestBollinger_Ordering(t *testing.T) {
	inputs := [][]float64{
		ramp(50, 0.5, 25),
		ramp(50, 0, 30),
		{10, 30, 12, 28, 15, 25, 11, 40, 9, 33, 20, 21, 19, 22, 18, 23, 17, 24, 16, 26, 0, 50},
	}
	for _, closes := range inputs {
		band, err := CalculateBollinger(closes, 20, 2)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, band.Upper, band.Middle)
		assert.GreaterOrEqual(t, band.Middle, band.Lower)

		bands, ok := BollingerSeries(closes, 20, 2)
		for i := range bands {
			if !ok[i] {
				continue
			}
			assert.GreaterOrEqual(t, bands[i].Upper, bands[i].Middle)
			assert.GreaterOrEqual(t, bands[i].Middle, bands[i].Lower)
		}
	}
}

func TestCalculateTrend(t *testing.T) {
	dir, strength := CalculateTrend(ramp(100, 1, 30))
	assert.Equal(t, model.Upward, dir)
	assert.InDelta(t, 1.0, strength, 1e-9)

	dir, strength = CalculateTrend(ramp(100, -2, 30))
	assert.Equal(t, model.Downward, dir)
	assert.InDelta(t, 1.0, strength, 1e-9)

	dir, strength = CalculateTrend(ramp(100, 0, 30))
	assert.Equal(t, model.Downward, dir)
	assert.Zero(t, strength)

	dir, strength = CalculateTrend([]float64{42})
	assert.Equal(t, model.Downward, dir)
	assert.Zero(t, strength)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   model.Classification
	}{
		{"empty", nil, model.Stable},
		{"up 10%", []float64{100, 105, 110}, model.Bullish},
		{"up exactly 5%", []float64{100, 105}, model.Stable},
		{"up 5.01%", []float64{100, 105.01}, model.Bullish},
		{"down 10%", []float64{100, 90}, model.Bearish},
		{"down exactly 5%", []float64{100, 95}, model.Stable},
		{"flat", []float64{100, 100}, model.Stable},
		{"zero start", []float64{0, 100}, model.Stable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.closes))
		})
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 0, s.MaxIdx)
	assert.Equal(t, 1, s.MinIdx)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.Equal(t, 3.0, s.Range)
	assert.Equal(t, 10.0, s.Sum)
	assert.InDelta(t, math.Sqrt(5.0/3), s.StdDev, 1e-9)

	single := Describe([]float64{7})
	assert.Equal(t, 7.0, single.Median)
	assert.Zero(t, single.StdDev)

	assert.Equal(t, Summary{}, Describe(nil))
}

func TestDailyChanges(t *testing.T) {
	changes := DailyChanges([]float64{100, 110, 0, 50, 25})
	// the change from 0 -> 50 is dropped
	require.Len(t, changes, 3)
	assert.InDelta(t, 10.0, changes[0], 1e-9)
	assert.InDelta(t, -100.0, changes[1], 1e-9)
	assert.InDelta(t, -50.0, changes[2], 1e-9)
	assert.Nil(t, DailyChanges([]float64{1}))
}

func TestCompute(t *testing.T) {
	in, err := Compute(seriesOf(ramp(100, 1, 30)))
	require.NoError(t, err)

	assert.Equal(t, model.Upward, in.Trend)
	assert.InDelta(t, 1.0, in.TrendStrength, 1e-9)
	assert.Equal(t, model.Bullish, in.Classification)
	assert.Equal(t, 129.0, in.HighestClose)
	assert.Equal(t, 100.0, in.LowestClose)
	assert.Equal(t, 100.0, in.StartPrice)
	assert.Equal(t, 129.0, in.EndPrice)
	assert.InDelta(t, 29.0, in.PriceChange, 1e-9)
	assert.InDelta(t, 29.0, in.PriceChangePercent, 1e-9)
	assert.Zero(t, in.MA50)
	assert.Zero(t, in.MA200)
	assert.Equal(t, NeutralRSI, in.RSI)
	assert.Greater(t, in.UpperBB, in.MiddleBB)
	assert.Greater(t, in.MiddleBB, in.LowerBB)
	assert.InDelta(t, 1.0, in.MaxDailyGain, 1e-9)
	assert.InDelta(t, 100.0/128, in.MaxDailyLoss, 1e-9)
	assert.Equal(t, "2026-01-02", in.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2026-01-31", in.MaxVolumeDate.Format("2006-01-02"))
	assert.Equal(t, "2026-01-02", in.MinVolumeDate.Format("2006-01-02"))
	assert.Equal(t, float64(30*1000+10*435), in.TotalVolume)
}

func TestCompute_Empty(t *testing.T) {
	_, err := Compute(model.Series{Symbol: "NONE"})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestCompute_ZeroFillsAndStaysFinite(t *testing.T) {
	closes := []float64{math.NaN(), 10, math.Inf(1), 12}
	in, err := Compute(seriesOf(closes))
	require.NoError(t, err)
	assert.Zero(t, in.StartPrice)
	assert.Equal(t, 12.0, in.HighestClose)
	assert.Zero(t, in.LowestClose)
	assert.Zero(t, in.PriceChangePercent)
	assert.Equal(t, model.Stable, in.Classification)

	single, err := Compute(seriesOf([]float64{50}))
	require.NoError(t, err)
	for name, v := range map[string]float64{
		"std":        single.StdDevClose,
		"volatility": single.Volatility,
		"strength":   single.TrendStrength,
		"gain":       single.MaxDailyGain,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), name)
		assert.Zero(t, v, name)
	}
}

func TestComputeOverlays(t *testing.T) {
	o := ComputeOverlays(seriesOf(ramp(10, 1, 60)))
	assert.Len(t, o.Closes, 60)
	assert.False(t, o.MA50OK[48])
	assert.True(t, o.MA50OK[49])
	assert.False(t, o.MA200OK[59])
	assert.True(t, o.BandsOK[19])
}
