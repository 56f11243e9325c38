package calculator

import "errors"

// NeutralRSI is reported when the series is too short or has no losses.
const NeutralRSI = 50.0

// CalculateRSI computes the RSI from the mean gain and mean loss of the last
// period day-over-day changes. Requires at least period+1 closes; returns 50
// when data is insufficient or the mean loss is zero.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return NeutralRSI, nil
	}

	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change // make positive
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	// rs diverges; report neutral instead of 100
	if avgLoss == 0 {
		return NeutralRSI, nil
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	return clamp(finite(rsi), 0, 100), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
