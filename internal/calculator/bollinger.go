package calculator

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// Bollinger defaults.
const (
	BollingerPeriod = 20
	BollingerWidth  = 2.0
)

// Band is one Bollinger envelope sample.
type Band struct {
	Upper, Middle, Lower float64
}

// CalculateBollinger returns the trailing period mean plus and minus k sample
// standard deviations. A series shorter than period yields a zero band.
func CalculateBollinger(closes []float64, period int, k float64) (Band, error) {
	if period <= 0 {
		return Band{}, errors.New("period must be positive")
	}
	if len(closes) < period {
		return Band{}, nil
	}
	return bandAt(closes[len(closes)-period:], k), nil
}

// BollingerSeries computes the band at every index with a full window.
func BollingerSeries(closes []float64, period int, k float64) (bands []Band, ok []bool) {
	bands = make([]Band, len(closes))
	ok = make([]bool, len(closes))
	if period <= 0 {
		return bands, ok
	}
	for i := period - 1; i < len(closes); i++ {
		bands[i] = bandAt(closes[i-period+1:i+1], k)
		ok[i] = true
	}
	return bands, ok
}

func bandAt(window []float64, k float64) Band {
	mean, std := stat.MeanStdDev(window, nil)
	mean, std = finite(mean), finite(std)
	return Band{Upper: mean + k*std, Middle: mean, Lower: mean - k*std}
}
