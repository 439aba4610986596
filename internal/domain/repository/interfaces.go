package repository

import (
	"context"
	"errors"

	"StockScope/internal/domain/models"
)

// ErrMissingKey is returned when the provider's metadata lacks a required field.
var ErrMissingKey = errors.New("missing key")

// MarketData is the external market-data provider.
type MarketData interface {
	// FetchDailyBars returns bars for symbol over lookback at the given
	// interval. An unknown symbol or an empty window yields an empty series
	// and a nil error.
	FetchDailyBars(ctx context.Context, symbol string, lookback Lookback, interval Interval) (models.PriceSeries, error)
	// FetchCompanyInfo returns name, industry and market cap for symbol.
	FetchCompanyInfo(ctx context.Context, symbol string) (models.CompanyInfo, error)
	Name() string
}

type Metrics interface {
	RecordRun(status, reason string)
	RecordRecommendation(label string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
