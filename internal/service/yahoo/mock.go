package yahoo

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	"StockScope/pkg/util"
)

// MockMarketData serves deterministic synthetic bars so the dashboard can
// run offline. Symbols listed in Unknown behave like delisted tickers.
type MockMarketData struct {
	Unknown map[string]bool
	// End is the last session date; zero means today (UTC).
	End time.Time
}

func NewMock() *MockMarketData {
	return &MockMarketData{Unknown: map[string]bool{"INVALID": true}}
}

func (m *MockMarketData) Name() string { return "mock" }

func (m *MockMarketData) FetchDailyBars(ctx context.Context, symbol string, lookback drepo.Lookback, interval drepo.Interval) (models.PriceSeries, error) {
	series := models.PriceSeries{Symbol: symbol}
	if err := ctx.Err(); err != nil {
		return series, err
	}
	if m.unknown(symbol) {
		return series, nil
	}

	end := m.End
	if end.IsZero() {
		end = util.TruncateDay(time.Now())
	}
	step := stepFor(interval)
	rng := rand.New(rand.NewSource(seed(symbol)))
	base := 20 + float64(seed(symbol)%480)
	price := base

	i := 0
	for d := lookback.Start(end); !d.After(end); d = step(d) {
		if interval == drepo.Interval1d && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		// Drift plus a monthly cycle plus noise.
		cycle := 0.02 * base * math.Sin(2*math.Pi*float64(i)/21)
		open := price
		price = math.Max(1, price*(1+0.0004+0.012*rng.NormFloat64()))
		last := price + cycle*0.1
		high := math.Max(open, last) * (1 + 0.005*rng.Float64())
		low := math.Min(open, last) * (1 - 0.005*rng.Float64())
		series.Bars = append(series.Bars, models.Bar{
			Date:   d,
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(last),
			Volume: math.Round(1e6 * (1 + rng.Float64())),
		})
		i++
	}
	return series, nil
}

func (m *MockMarketData) FetchCompanyInfo(ctx context.Context, symbol string) (models.CompanyInfo, error) {
	if err := ctx.Err(); err != nil {
		return models.CompanyInfo{}, err
	}
	if m.unknown(symbol) {
		return models.CompanyInfo{}, drepo.ErrMissingKey
	}
	name := strings.SplitN(symbol, ".", 2)[0]
	return models.CompanyInfo{
		Name:      name + " Holdings Inc.",
		Industry:  "Diversified Holdings",
		MarketCap: int64(seed(symbol)%900+100) * 1_000_000_000,
	}, nil
}

func (m *MockMarketData) unknown(symbol string) bool {
	return symbol == "" || m.Unknown[strings.SplitN(strings.ToUpper(symbol), ".", 2)[0]]
}

func stepFor(iv drepo.Interval) func(time.Time) time.Time {
	switch iv {
	case drepo.Interval1wk:
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	case drepo.Interval1mo:
		return func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	default:
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	}
}

func seed(symbol string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return int64(h.Sum64() & math.MaxInt64)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

var _ drepo.MarketData = (*MockMarketData)(nil)
