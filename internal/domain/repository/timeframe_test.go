package repository

import (
	"testing"
	"time"
)

func TestNormalizeLookback(t *testing.T) {
	if got := NormalizeLookback(""); got != Lookback1y {
		t.Fatalf("expected default 1y, got %s", got)
	}
	if got := NormalizeLookback("6mo"); got != Lookback6mo {
		t.Fatalf("expected 6mo, got %s", got)
	}
	if got := NormalizeLookback("7y"); got != Lookback1y {
		t.Fatalf("expected fallback to 1y, got %s", got)
	}
}

func TestNormalizeInterval(t *testing.T) {
	if got := NormalizeInterval("1wk"); got != Interval1wk {
		t.Fatalf("expected 1wk, got %s", got)
	}
	if got := NormalizeInterval("1m"); got != Interval1d {
		t.Fatalf("expected fallback to 1d, got %s", got)
	}
}

func TestLookbackStart(t *testing.T) {
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := Lookback1y.Start(end); !got.Equal(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected 1y start %v", got)
	}
	if got := Lookback3mo.Start(end); !got.Equal(time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected 3mo start %v", got)
	}
}
