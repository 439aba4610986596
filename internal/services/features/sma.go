package features

import (
	"gonum.org/v1/gonum/stat"

	"StockScope/internal/domain/models"
)

// DefaultSMAWindow is the trailing window used by the dashboard.
const DefaultSMAWindow = 20

// ApplySMA returns a copy of series with each bar's SMA set to the mean of
// the trailing window closes ending at that bar. The first window-1 bars
// (and every bar when window <= 0) stay undefined.
func ApplySMA(series models.PriceSeries, window int) models.PriceSeries {
	out := models.PriceSeries{Symbol: series.Symbol, Bars: make([]models.Bar, len(series.Bars))}
	copy(out.Bars, series.Bars)

	for i, v := range SMA(series.Closes(), window) {
		out.Bars[i].SMA = v
	}
	return out
}

// SMA computes the trailing moving average of values, aligned to values.
func SMA(values []float64, window int) []models.NullFloat {
	out := make([]models.NullFloat, len(values))
	for i := range values {
		out[i] = trailingMean(values, i, window)
	}
	return out
}

func trailingMean(values []float64, i, window int) models.NullFloat {
	if window <= 0 || i < window-1 {
		return models.NullFloat{}
	}
	return models.Defined(stat.Mean(values[i-window+1:i+1], nil))
}
