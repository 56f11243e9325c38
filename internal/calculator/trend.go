package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"stockreport/internal/model"
)

// CalculateTrend regresses closes against their index. Direction follows the
// slope sign; strength is the absolute correlation coefficient.
func CalculateTrend(closes []float64) (model.TrendDirection, float64) {
	if len(closes) < 2 {
		return model.Downward, 0
	}
	x := make([]float64, len(closes))
	for i := range x {
		x[i] = float64(i)
	}
	_, slope := stat.LinearRegression(x, closes, nil, false)
	dir := model.Downward
	if finite(slope) > 0 {
		dir = model.Upward
	}
	return dir, math.Abs(finite(stat.Correlation(x, closes, nil)))
}
