package analytics

import (
	"errors"

	"StockScope/internal/domain/models"
)

// ErrUndefinedAverage is returned when the latest moving average has not
// filled its window yet.
var ErrUndefinedAverage = errors.New("moving average undefined at latest bar")

// Classify returns Buy when close is strictly above the moving average and
// Sell otherwise, so a tie is Sell.
func Classify(close float64, sma models.NullFloat) (models.Recommendation, error) {
	if !sma.Valid {
		return "", ErrUndefinedAverage
	}
	if close > sma.Float64 {
		return models.Buy, nil
	}
	return models.Sell, nil
}

// LatestSignal classifies the most recent bar of series.
func LatestSignal(series models.PriceSeries) (models.Recommendation, error) {
	last, ok := series.Last()
	if !ok {
		return "", ErrUndefinedAverage
	}
	return Classify(last.Close, last.SMA)
}
