package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockScope/internal/domain/models"
	domrepo "StockScope/internal/domain/repository"
	domsvc "StockScope/internal/domain/service"
	"StockScope/internal/services/analytics"
	"StockScope/internal/services/features"
	applogger "StockScope/pkg/logger"
	"StockScope/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrEmptyTicker     = errors.New("ticker is empty")
	ErrUnknownExchange = errors.New("unknown exchange")
)

// Status is the top-level result of an analysis run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusNoData Status = "no_data"
	StatusFailed Status = "failed"
)

// Reason tags the step a failed run stopped at.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonInput         Reason = "input"
	ReasonFetch         Reason = "fetch"
	ReasonMetadata      Reason = "metadata"
	ReasonSignal        Reason = "signal"
	ReasonDecomposition Reason = "decomposition"
)

// AnalysisConfig holds the tunables of the pipeline.
type AnalysisConfig struct {
	SMAWindow           int
	DecompositionPeriod int
	Lookback            domrepo.Lookback
	Interval            domrepo.Interval
}

// DefaultAnalysisConfig is SMA(20), period 30, one year of daily bars.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SMAWindow:           features.DefaultSMAWindow,
		DecompositionPeriod: analytics.DefaultPeriod,
		Lookback:            domrepo.DefaultLookback(),
		Interval:            domrepo.DefaultInterval(),
	}
}

// AnalysisParams are the user inputs of one run.
type AnalysisParams struct {
	Ticker   string
	Exchange models.Exchange
}

// Report is the payload of a successful run.
type Report struct {
	Ticker         string                `json:"ticker"`
	Exchange       models.Exchange       `json:"exchange"`
	Symbol         string                `json:"symbol"`
	Company        models.CompanyInfo    `json:"company"`
	Series         models.PriceSeries    `json:"series"`
	Recommendation models.Recommendation `json:"recommendation"`
	Decomposition  models.Decomposition  `json:"decomposition"`
}

// Outcome is either a Report (StatusOK), an empty result (StatusNoData) or
// a failure tagged with the step that produced it.
type Outcome struct {
	Status Status
	Reason Reason
	Err    error
	Ticker string
	Symbol string
	Report *Report
}

// Description is the failure text shown to the user.
func (o Outcome) Description() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

func (o Outcome) OK() bool { return o.Status == StatusOK }

// AnalysisUseCase runs fetch -> SMA -> metadata -> signal -> decomposition
// for one ticker. Runs share no mutable state.
type AnalysisUseCase struct {
	md      domrepo.MarketData
	dec     domsvc.Decomposer
	metrics domrepo.Metrics
	log     *applogger.Logger
	cfg     AnalysisConfig
}

func NewAnalysisUseCase(md domrepo.MarketData, dec domsvc.Decomposer, metrics domrepo.Metrics, log *applogger.Logger, cfg AnalysisConfig) *AnalysisUseCase {
	if log == nil {
		log = applogger.Nop()
	}
	def := DefaultAnalysisConfig()
	if cfg.SMAWindow <= 0 {
		cfg.SMAWindow = def.SMAWindow
	}
	if cfg.DecompositionPeriod <= 0 {
		cfg.DecompositionPeriod = def.DecompositionPeriod
	}
	if !domrepo.IsValidLookback(cfg.Lookback) {
		cfg.Lookback = def.Lookback
	}
	if !domrepo.IsValidInterval(cfg.Interval) {
		cfg.Interval = def.Interval
	}
	return &AnalysisUseCase{md: md, dec: dec, metrics: metrics, log: log, cfg: cfg}
}

func (uc *AnalysisUseCase) Config() AnalysisConfig { return uc.cfg }

// Run executes the pipeline. It never returns a partial report.
func (uc *AnalysisUseCase) Run(ctx context.Context, p AnalysisParams) (out Outcome) {
	ctx, span := tracing.StartSpan(ctx, "analysis.Run",
		attribute.String("ticker", p.Ticker),
		attribute.String("exchange", string(p.Exchange)),
	)
	start := time.Now()
	defer func() {
		span.SetAttributes(attribute.String("status", string(out.Status)), attribute.String("reason", string(out.Reason)))
		tracing.Fail(span, out.Err)
		span.End()
		uc.record(out, time.Since(start))
	}()

	out = Outcome{Ticker: p.Ticker}

	// 1. qualify
	if strings.TrimSpace(p.Ticker) == "" {
		return uc.fail(out, ReasonInput, ErrEmptyTicker)
	}
	if !p.Exchange.IsValid() {
		return uc.fail(out, ReasonInput, fmt.Errorf("%w: %q", ErrUnknownExchange, p.Exchange))
	}
	out.Symbol = models.QualifySymbol(p.Ticker, p.Exchange)

	// 2. fetch bars
	series, err := uc.fetchBars(ctx, out.Symbol)
	if err != nil {
		return uc.fail(out, ReasonFetch, err)
	}
	if series.Empty() {
		out.Status = StatusNoData
		return out
	}

	// 3. moving average
	series = features.ApplySMA(series, uc.cfg.SMAWindow)

	// 4. metadata
	info, err := uc.fetchCompany(ctx, out.Symbol)
	if err != nil {
		return uc.fail(out, ReasonMetadata, err)
	}

	// 5. signal
	rec, err := analytics.LatestSignal(series)
	if err != nil {
		return uc.fail(out, ReasonSignal, fmt.Errorf("%w: %d bars for a %d-bar window", err, series.Len(), uc.cfg.SMAWindow))
	}

	// 6. decomposition
	dec, err := uc.decompose(ctx, series.Closes())
	if err != nil {
		return uc.fail(out, ReasonDecomposition, err)
	}

	out.Status = StatusOK
	out.Report = &Report{
		Ticker:         p.Ticker,
		Exchange:       p.Exchange,
		Symbol:         out.Symbol,
		Company:        info,
		Series:         series,
		Recommendation: rec,
		Decomposition:  dec,
	}
	return out
}

func (uc *AnalysisUseCase) fetchBars(ctx context.Context, symbol string) (models.PriceSeries, error) {
	ctx, span := tracing.StartSpan(ctx, "analysis.fetch")
	defer span.End()
	series, err := uc.md.FetchDailyBars(ctx, symbol, uc.cfg.Lookback, uc.cfg.Interval)
	tracing.Fail(span, err)
	return series, err
}

func (uc *AnalysisUseCase) fetchCompany(ctx context.Context, symbol string) (models.CompanyInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "analysis.metadata")
	defer span.End()
	info, err := uc.md.FetchCompanyInfo(ctx, symbol)
	tracing.Fail(span, err)
	return info, err
}

func (uc *AnalysisUseCase) decompose(ctx context.Context, closes []float64) (models.Decomposition, error) {
	ctx, span := tracing.StartSpan(ctx, "analysis.decompose", attribute.Int("period", uc.cfg.DecompositionPeriod))
	defer span.End()
	dec, err := uc.dec.Decompose(ctx, closes, uc.cfg.DecompositionPeriod)
	tracing.Fail(span, err)
	return dec, err
}

func (uc *AnalysisUseCase) fail(out Outcome, reason Reason, err error) Outcome {
	out.Status = StatusFailed
	out.Reason = reason
	out.Err = err
	return out
}

func (uc *AnalysisUseCase) record(out Outcome, elapsed time.Duration) {
	fields := []applogger.Field{
		applogger.String("ticker", out.Ticker),
		applogger.String("symbol", out.Symbol),
		applogger.String("status", string(out.Status)),
		applogger.Duration("duration_ms", elapsed),
	}
	switch out.Status {
	case StatusFailed:
		uc.log.Warn("analysis failed", append(fields, applogger.String("reason", string(out.Reason)), applogger.Error(out.Err))...)
	case StatusNoData:
		uc.log.Info("analysis found no data", fields...)
	default:
		uc.log.Info("analysis completed", append(fields, applogger.String("recommendation", out.Report.Recommendation.String()))...)
	}

	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordRun(string(out.Status), string(out.Reason))
	uc.metrics.RecordLatency("analysis", elapsed.Seconds())
	if out.Report != nil {
		uc.metrics.RecordRecommendation(out.Report.Recommendation.String())
	}
}
