package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
)

func trendPlusSeason(n int, pattern []float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 2*float64(i) + pattern[i%len(pattern)]
	}
	return out
}

func TestDecomposeRejectsShortSeries(t *testing.T) {
	d := NewClassicalDecomposer()
	_, err := d.Decompose(context.Background(), make([]float64, 2*DefaultPeriod-1), DefaultPeriod)
	if !errors.Is(err, ErrInsufficientObservations) {
		t.Fatalf("expected ErrInsufficientObservations, got %v", err)
	}
}

func TestDecomposeRejectsBadPeriod(t *testing.T) {
	d := NewClassicalDecomposer()
	if _, err := d.Decompose(context.Background(), make([]float64, 10), 1); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestDecomposeRejectsNaN(t *testing.T) {
	d := NewClassicalDecomposer()
	vals := trendPlusSeason(8, []float64{1, -1})
	vals[3] = math.NaN()
	if _, err := d.Decompose(context.Background(), vals, 2); !errors.Is(err, ErrMissingValues) {
		t.Fatalf("expected ErrMissingValues, got %v", err)
	}
}

func TestDecomposeHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClassicalDecomposer().Decompose(ctx, make([]float64, 60), 30); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDecomposeMinimumLengthShape(t *testing.T) {
	vals := make([]float64, 2*DefaultPeriod)
	for i := range vals {
		vals[i] = 50 + math.Sin(float64(i))
	}
	res, err := NewClassicalDecomposer().Decompose(context.Background(), vals, DefaultPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Trend) != len(vals) || len(res.Seasonal) != len(vals) || len(res.Residual) != len(vals) {
		t.Fatalf("component lengths differ from input")
	}
	half := DefaultPeriod / 2
	for i, v := range res.Trend {
		edge := i < half || i >= len(vals)-half
		if edge != math.IsNaN(v) {
			t.Fatalf("trend definedness wrong at %d (nan=%v)", i, math.IsNaN(v))
		}
	}
	for i, v := range res.Seasonal {
		if math.IsNaN(v) {
			t.Fatalf("seasonal undefined at %d", i)
		}
	}
}

func TestDecomposeRecoversComponentsEvenPeriod(t *testing.T) {
	pattern := []float64{3, -1, -4, 2}
	vals := trendPlusSeason(24, pattern)
	res, err := NewClassicalDecomposer().Decompose(context.Background(), vals, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertRecovered(t, res.Trend, res.Seasonal, res.Residual, pattern)
}

func TestDecomposeRecoversComponentsOddPeriod(t *testing.T) {
	pattern := []float64{2, -3, 1}
	vals := trendPlusSeason(15, pattern)
	res, err := NewClassicalDecomposer().Decompose(context.Background(), vals, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertRecovered(t, res.Trend, res.Seasonal, res.Residual, pattern)
}

func assertRecovered(t *testing.T, trend, seasonal, residual, pattern []float64) {
	t.Helper()
	const eps = 1e-9
	for i := range trend {
		if !math.IsNaN(trend[i]) {
			if want := 100 + 2*float64(i); math.Abs(trend[i]-want) > eps {
				t.Fatalf("trend at %d = %v, want %v", i, trend[i], want)
			}
			if math.Abs(residual[i]) > eps {
				t.Fatalf("residual at %d = %v, want 0", i, residual[i])
			}
		}
		if want := pattern[i%len(pattern)]; math.Abs(seasonal[i]-want) > eps {
			t.Fatalf("seasonal at %d = %v, want %v", i, seasonal[i], want)
		}
	}
}

// Reference components follow statsmodels seasonal_decompose(model="additive").
func TestDecomposeNoisyOffsetPatternEvenPeriod(t *testing.T) {
	// 100 + 2i + {10, 12, 8, 14}[i%4] + noise; the pattern mean (11) must end
	// up in the trend, not the seasonal component.
	vals := []float64{110.3, 113.8, 112.1, 120.4, 117.5, 122.2, 120.0, 127.9, 126.25, 129.7, 128.15, 136.05}
	res, err := NewClassicalDecomposer().Decompose(context.Background(), vals, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nan := math.NaN()
	assertComponents(t, res.Trend, []float64{nan, nan, 115.05, 117.0, 119.0375, 120.9625, 122.99375, 125.025, 126.98125, 129.01875, nan, nan})
	assertComponents(t, res.Seasonal, []float64{
		-1.13203125, 0.96171875, -2.96953125, 3.13984375,
		-1.13203125, 0.96171875, -2.96953125, 3.13984375,
		-1.13203125, 0.96171875, -2.96953125, 3.13984375,
	})
	assertComponents(t, res.Residual, []float64{nan, nan, 0.01953125, 0.26015625, -0.40546875, 0.27578125, -0.02421875, -0.26484375, 0.40078125, -0.28046875, nan, nan})
}

func TestDecomposeNoisyOffsetPatternOddPeriod(t *testing.T) {
	vals := []float64{70.2, 73.6, 72.1, 67.3, 71.0, 68.8, 63.9, 68.5, 65.7}
	res, err := NewClassicalDecomposer().Decompose(context.Background(), vals, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nan := math.NaN()
	assertComponents(t, res.Trend, []float64{nan, 71.96666666666667, 71.0, 70.13333333333334, 69.03333333333333, 67.9, 67.06666666666666, 66.03333333333333, nan})
	season := []float64{-3.0074074074074075, 2.0148148148148146, 0.9925925925925926}
	for i, v := range res.Seasonal {
		if math.Abs(v-season[i%3]) > 1e-9 {
			t.Fatalf("seasonal at %d = %v, want %v", i, v, season[i%3])
		}
	}
	assertComponents(t, res.Residual, []float64{nan, -0.3814814814814815, 0.10740740740740741, 0.17407407407407408, -0.04814814814814815, -0.09259259259259259, -0.15925925925925927, 0.45185185185185184, nan})
}

func assertComponents(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Fatalf("index %d = %v, want NaN", i, got[i])
			}
			continue
		}
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d = %v, want %v", i, got[i], want[i])
		}
	}
}
