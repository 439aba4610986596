package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordRun("ok", "")
	r.RecordRun("ok", "")
	r.RecordRun("failed", "fetch")
	r.RecordRecommendation("Buy")
	r.RecordError("yahoo_chart")
	r.RecordLastPrice("AAPL", 189.25)
	r.RecordLatency("fetch_bars", 0.2)

	if got := testutil.ToFloat64(r.runs.WithLabelValues("ok", "none")); got != 2 {
		t.Fatalf("expected 2 ok runs, got %v", got)
	}
	if got := testutil.ToFloat64(r.runs.WithLabelValues("failed", "fetch")); got != 1 {
		t.Fatalf("expected 1 failed run, got %v", got)
	}
	if got := testutil.ToFloat64(r.recommendations.WithLabelValues("Buy")); got != 1 {
		t.Fatalf("expected 1 recommendation, got %v", got)
	}
	if got := testutil.ToFloat64(r.lastPrice.WithLabelValues("AAPL")); got != 189.25 {
		t.Fatalf("unexpected last price %v", got)
	}
	if n := testutil.CollectAndCount(r.latency); n != 1 {
		t.Fatalf("expected 1 latency series, got %d", n)
	}
}

func TestRecordersUseSeparateRegistries(t *testing.T) {
	NewWithRegisterer(prometheus.NewRegistry())
	NewWithRegisterer(prometheus.NewRegistry())
}

func TestLastPriceSeriesAreBounded(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())
	r.maxSymbols = 3

	for i := 0; i < 50; i++ {
		r.RecordLastPrice(fmt.Sprintf("SYM%d", i), float64(i))
	}
	r.RecordLastPrice("SYM47", 470)
	r.RecordLastPrice("NEW", 1)

	if n := testutil.CollectAndCount(r.lastPrice); n != 3 {
		t.Fatalf("expected 3 price series, got %d", n)
	}
	if got := testutil.ToFloat64(r.lastPrice.WithLabelValues("SYM47")); got != 470 {
		t.Fatalf("refreshed symbol should survive, got %v", got)
	}
}

func TestRecommendationsHaveNoSymbolLabel(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())
	r.RecordRecommendation("Buy")
	r.RecordRecommendation("Sell")
	r.RecordRecommendation("Buy")

	if n := testutil.CollectAndCount(r.recommendations); n != 2 {
		t.Fatalf("expected one series per label, got %d", n)
	}
}
