package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"
)

// ErrInsufficientData is returned when a window is longer than the input.
var ErrInsufficientData = errors.New("not enough data for window")

// CalculateSMA computes the simple moving average of the most recent period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	sma := talib.Sma(prices, period)
	return finite(sma[len(sma)-1]), nil
}

// SMASeries returns the trailing SMA at every index. Indices before the
// first full window are reported as not ok.
func SMASeries(prices []float64, period int) (values []float64, ok []bool) {
	values = make([]float64, len(prices))
	ok = make([]bool, len(prices))
	if period <= 0 || len(prices) < period {
		return values, ok
	}
	// talib leaves the lookback prefix at zero.
	sma := talib.Sma(prices, period)
	for i := period - 1; i < len(prices); i++ {
		values[i] = finite(sma[i])
		ok[i] = true
	}
	return values, ok
}

// MovingAverages returns the 50- and 200-period SMAs, zero when the series
// is shorter than the window.
func MovingAverages(closes []float64) (ma50, ma200 float64) {
	ma50, _ = CalculateSMA(closes, 50)
	ma200, _ = CalculateSMA(closes, 200)
	return ma50, ma200
}
