package calculator

import "stockreport/internal/model"

// ClassificationThreshold is the percent move separating Stable from a
// directional classification.
const ClassificationThreshold = 5.0

// Classify labels a series by the percent change from its first to last
// close. An empty series is Stable.
func Classify(closes []float64) model.Classification {
	if len(closes) == 0 {
		return model.Stable
	}
	return classifyChange(percentChange(closes[0], closes[len(closes)-1]))
}

func classifyChange(pct float64) model.Classification {
	switch {
	case pct > ClassificationThreshold:
		return model.Bullish
	case pct < -ClassificationThreshold:
		return model.Bearish
	default:
		return model.Stable
	}
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return finite((to - from) / from * 100)
}
