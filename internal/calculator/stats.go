package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of one sub-sequence of a series.
type Summary struct {
	Max, Min float64
	MaxIdx   int
	MinIdx   int
	Mean     float64
	Median   float64
	StdDev   float64
	Range    float64
	Sum      float64
}

// Describe summarises values. The standard deviation is the sample one; an
// empty or single-element input yields zeros where a value is undefined.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		MaxIdx: floats.MaxIdx(values),
		MinIdx: floats.MinIdx(values),
		Sum:    finite(floats.Sum(values)),
	}
	s.Max = values[s.MaxIdx]
	s.Min = values[s.MinIdx]
	s.Range = finite(s.Max - s.Min)
	s.Mean = finite(stat.Mean(values, nil))
	s.Median = median(values)
	if len(values) > 1 {
		s.StdDev = finite(stat.StdDev(values, nil))
	}
	return s
}

// DailyChanges returns the day-over-day percent changes of closes. A change
// whose previous close is zero is dropped.
func DailyChanges(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		out = append(out, (closes[i]-prev)/prev*100)
	}
	return out
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return finite((sorted[n/2-1] + sorted[n/2]) / 2)
}

// finite maps NaN and ±Inf to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// zeroFill returns a copy of values with non-finite entries replaced by zero.
func zeroFill(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = finite(v)
	}
	return out
}
