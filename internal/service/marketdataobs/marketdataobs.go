// Package marketdataobs decorates a MarketData provider with tracing,
// logging and latency metrics.
package marketdataobs

import (
	"context"
	"time"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	applogger "StockScope/pkg/logger"
	"StockScope/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type observableMarketData struct {
	next    drepo.MarketData
	log     *applogger.Logger
	metrics drepo.Metrics
}

var _ drepo.MarketData = (*observableMarketData)(nil)

// Wrap wraps a provider with observability.
func Wrap(next drepo.MarketData, log *applogger.Logger, metrics drepo.Metrics) drepo.MarketData {
	if log == nil {
		log = applogger.Nop()
	}
	return &observableMarketData{next: next, log: log, metrics: metrics}
}

func (o *observableMarketData) Name() string { return o.next.Name() }

func (o *observableMarketData) FetchDailyBars(ctx context.Context, symbol string, lookback drepo.Lookback, interval drepo.Interval) (models.PriceSeries, error) {
	ctx, span := tracing.StartSpan(ctx, "marketdata.FetchDailyBars",
		attribute.String("provider", o.next.Name()),
		attribute.String("symbol", symbol),
		attribute.String("lookback", string(lookback)),
	)
	defer span.End()

	start := time.Now()
	series, err := o.next.FetchDailyBars(ctx, symbol, lookback, interval)
	o.observe("fetch_bars", start)
	if err != nil {
		tracing.Fail(span, err)
		o.recordError("fetch_bars")
		o.log.Error("fetch bars failed",
			applogger.String("provider", o.next.Name()),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return series, err
	}

	span.SetAttributes(attribute.Int("bars", series.Len()))
	if last, ok := series.Last(); ok && o.metrics != nil {
		o.metrics.RecordLastPrice(symbol, last.Close)
	}
	o.log.Debug("bars fetched",
		applogger.String("symbol", symbol),
		applogger.Int("bars", series.Len()),
		applogger.Duration("latency_ms", time.Since(start)),
	)
	return series, nil
}

func (o *observableMarketData) FetchCompanyInfo(ctx context.Context, symbol string) (models.CompanyInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "marketdata.FetchCompanyInfo",
		attribute.String("provider", o.next.Name()),
		attribute.String("symbol", symbol),
	)
	defer span.End()

	start := time.Now()
	info, err := o.next.FetchCompanyInfo(ctx, symbol)
	o.observe("fetch_company", start)
	if err != nil {
		tracing.Fail(span, err)
		o.recordError("fetch_company")
		o.log.Error("fetch company info failed",
			applogger.String("provider", o.next.Name()),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return info, err
	}

	o.log.Debug("company info fetched", applogger.String("symbol", symbol), applogger.String("name", info.Name))
	return info, nil
}

func (o *observableMarketData) observe(op string, start time.Time) {
	if o.metrics != nil {
		o.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
}

func (o *observableMarketData) recordError(op string) {
	if o.metrics != nil {
		o.metrics.RecordError(o.next.Name() + "_" + op)
	}
}
