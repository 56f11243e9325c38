package model

import "time"

// Classification labels the overall price move of a series.
type Classification string

const (
	Bullish Classification = "Bullish"
	Bearish Classification = "Bearish"
	Stable  Classification = "Stable"
)

// TrendDirection is the sign of the close-price regression slope.
type TrendDirection string

const (
	Upward   TrendDirection = "Upward"
	Downward TrendDirection = "Downward"
)

// Insights holds every statistic computed for one (ticker, timeframe).
// Undefined values are stored as zero.
type Insights struct {
	Timeframe Timeframe

	HighestClose float64
	LowestClose  float64
	AverageClose float64
	MedianClose  float64
	StdDevClose  float64
	RangeClose   float64

	TotalVolume   float64
	MaxVolume     float64
	MinVolume     float64
	AverageVolume float64
	MedianVolume  float64
	StdDevVolume  float64
	RangeVolume   float64
	MaxVolumeDate time.Time
	MinVolumeDate time.Time

	StartDate          time.Time
	EndDate            time.Time
	StartPrice         float64
	EndPrice           float64
	PriceChange        float64
	PriceChangePercent float64
	MaxDailyGain       float64
	MaxDailyLoss       float64
	Volatility         float64

	Classification Classification
	Trend          TrendDirection
	TrendStrength  float64
	MA50           float64
	MA200          float64
	RSI            float64
	UpperBB        float64
	MiddleBB       float64
	LowerBB        float64
}

// BandWidth is the distance between the upper and lower Bollinger bands.
func (in *Insights) BandWidth() float64 { return in.UpperBB - in.LowerBB }
