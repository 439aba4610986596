package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockScope/internal/domain/models"
	domrepo "StockScope/internal/domain/repository"
	"StockScope/internal/services/analytics"
)

type fakeMarketData struct {
	bars       int
	barsErr    error
	infoErr    error
	gotSymbols []string
}

func (f *fakeMarketData) Name() string { return "fake" }

func (f *fakeMarketData) FetchDailyBars(_ context.Context, symbol string, _ domrepo.Lookback, _ domrepo.Interval) (models.PriceSeries, error) {
	f.gotSymbols = append(f.gotSymbols, symbol)
	if f.barsErr != nil {
		return models.PriceSeries{}, f.barsErr
	}
	return risingSeries(symbol, f.bars), nil
}

func (f *fakeMarketData) FetchCompanyInfo(_ context.Context, symbol string) (models.CompanyInfo, error) {
	if f.infoErr != nil {
		return models.CompanyInfo{}, f.infoErr
	}
	return models.CompanyInfo{Name: "Test Corp", Industry: "Testing", MarketCap: 1_000_000}, nil
}

func risingSeries(symbol string, n int) models.PriceSeries {
	s := models.PriceSeries{Symbol: symbol}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		s.Bars = append(s.Bars, models.Bar{
			Date: start.AddDate(0, 0, i), Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		})
	}
	return s
}

type runRecorder struct {
	runs []string
	recs []string
}

func (r *runRecorder) RecordRun(status, reason string)  { r.runs = append(r.runs, status+"/"+reason) }
func (r *runRecorder) RecordRecommendation(label string) { r.recs = append(r.recs, label) }
func (r *runRecorder) RecordError(string)               {}
func (r *runRecorder) RecordLastPrice(string, float64)  {}
func (r *runRecorder) RecordLatency(string, float64)    {}

func newUseCase(md domrepo.MarketData, rec *runRecorder) *AnalysisUseCase {
	return NewAnalysisUseCase(md, analytics.NewClassicalDecomposer(), rec, nil, DefaultAnalysisConfig())
}

func TestRunOK(t *testing.T) {
	md := &fakeMarketData{bars: 250}
	rec := &runRecorder{}
	out := newUseCase(md, rec).Run(context.Background(), AnalysisParams{Ticker: "TCS", Exchange: models.ExchangeIndia})

	if out.Status != StatusOK || out.Reason != ReasonNone || out.Err != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if md.gotSymbols[0] != "TCS.NS" || out.Symbol != "TCS.NS" {
		t.Fatalf("expected qualified symbol TCS.NS, got %v", md.gotSymbols)
	}
	r := out.Report
	if r == nil || r.Ticker != "TCS" || r.Company.Name != "Test Corp" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Recommendation != models.Buy {
		t.Fatalf("rising closes should be Buy, got %s", r.Recommendation)
	}
	if r.Decomposition.Len() != 250 || r.Series.Len() != 250 {
		t.Fatalf("unexpected lengths: series %d decomposition %d", r.Series.Len(), r.Decomposition.Len())
	}
	if r.Series.Bars[18].SMA.Valid || !r.Series.Bars[19].SMA.Valid {
		t.Fatal("SMA should become defined at the 20th bar")
	}
	if len(rec.runs) != 1 || rec.runs[0] != "ok/" || rec.recs[0] != "Buy" {
		t.Fatalf("unexpected metrics runs=%v recs=%v", rec.runs, rec.recs)
	}
}

func TestRunNoData(t *testing.T) {
	rec := &runRecorder{}
	out := newUseCase(&fakeMarketData{bars: 0}, rec).Run(context.Background(), AnalysisParams{Ticker: "ZZZZ", Exchange: models.ExchangeUSA})
	if out.Status != StatusNoData || out.Err != nil || out.Report != nil {
		t.Fatalf("expected no_data, got %+v", out)
	}
	if rec.runs[0] != "no_data/" {
		t.Fatalf("unexpected metrics %v", rec.runs)
	}
}

func TestRunFailures(t *testing.T) {
	fetchErr := errors.New("connection reset")
	cases := []struct {
		name   string
		md     *fakeMarketData
		params AnalysisParams
		reason Reason
		target error
	}{
		{"empty ticker", &fakeMarketData{bars: 250}, AnalysisParams{Ticker: "  ", Exchange: models.ExchangeUSA}, ReasonInput, ErrEmptyTicker},
		{"bad exchange", &fakeMarketData{bars: 250}, AnalysisParams{Ticker: "AAPL", Exchange: "Mars"}, ReasonInput, ErrUnknownExchange},
		{"fetch", &fakeMarketData{barsErr: fetchErr}, AnalysisParams{Ticker: "AAPL", Exchange: models.ExchangeUSA}, ReasonFetch, fetchErr},
		{"metadata", &fakeMarketData{bars: 250, infoErr: domrepo.ErrMissingKey}, AnalysisParams{Ticker: "AAPL", Exchange: models.ExchangeUSA}, ReasonMetadata, domrepo.ErrMissingKey},
		{"signal", &fakeMarketData{bars: 10}, AnalysisParams{Ticker: "AAPL", Exchange: models.ExchangeUSA}, ReasonSignal, analytics.ErrUndefinedAverage},
		{"decomposition", &fakeMarketData{bars: 45}, AnalysisParams{Ticker: "AAPL", Exchange: models.ExchangeUSA}, ReasonDecomposition, analytics.ErrInsufficientObservations},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &runRecorder{}
			out := newUseCase(tc.md, rec).Run(context.Background(), tc.params)
			if out.Status != StatusFailed || out.Reason != tc.reason {
				t.Fatalf("expected failed/%s, got %s/%s (%v)", tc.reason, out.Status, out.Reason, out.Err)
			}
			if !errors.Is(out.Err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, out.Err)
			}
			if out.Report != nil {
				t.Fatal("failed runs must not carry a report")
			}
			if out.Description() == "" {
				t.Fatal("failed runs must describe the error")
			}
			if rec.runs[0] != "failed/"+string(tc.reason) || len(rec.recs) != 0 {
				t.Fatalf("unexpected metrics runs=%v recs=%v", rec.runs, rec.recs)
			}
		})
	}
}

func TestRunInputFailureSkipsProvider(t *testing.T) {
	md := &fakeMarketData{bars: 250}
	newUseCase(md, &runRecorder{}).Run(context.Background(), AnalysisParams{Ticker: "", Exchange: models.ExchangeUSA})
	if len(md.gotSymbols) != 0 {
		t.Fatalf("provider should not be called, got %v", md.gotSymbols)
	}
}

func TestNewAnalysisUseCaseDefaults(t *testing.T) {
	uc := NewAnalysisUseCase(&fakeMarketData{}, analytics.NewClassicalDecomposer(), nil, nil, AnalysisConfig{})
	cfg := uc.Config()
	if cfg.SMAWindow != 20 || cfg.DecompositionPeriod != 30 || cfg.Lookback != domrepo.Lookback1y || cfg.Interval != domrepo.Interval1d {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
