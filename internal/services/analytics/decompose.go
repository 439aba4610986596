package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"StockScope/internal/domain/models"
	domsvc "StockScope/internal/domain/service"
)

// DefaultPeriod is the seasonal period used by the dashboard.
const DefaultPeriod = 30

var (
	ErrInsufficientObservations = errors.New("series must cover two complete cycles")
	ErrInvalidPeriod            = errors.New("period must be at least 2")
	ErrMissingValues            = errors.New("series contains missing values")
)

// ClassicalDecomposer performs a classical additive decomposition:
// centred moving-average trend, phase-mean seasonal and the remainder.
type ClassicalDecomposer struct{}

func NewClassicalDecomposer() *ClassicalDecomposer { return &ClassicalDecomposer{} }

func (d *ClassicalDecomposer) Decompose(ctx context.Context, values []float64, period int) (models.Decomposition, error) {
	if err := ctx.Err(); err != nil {
		return models.Decomposition{}, err
	}
	if period < 2 {
		return models.Decomposition{}, fmt.Errorf("%w: got %d", ErrInvalidPeriod, period)
	}
	if len(values) < 2*period {
		return models.Decomposition{}, fmt.Errorf("%w: period %d requires %d observations, got %d",
			ErrInsufficientObservations, period, 2*period, len(values))
	}
	if floats.HasNaN(values) {
		return models.Decomposition{}, ErrMissingValues
	}

	trend := centredMovingAverage(values, period)

	detrended := make([]float64, len(values))
	copy(detrended, values)
	floats.Sub(detrended, trend)

	pattern := phaseMeans(detrended, period)
	floats.AddConst(-stat.Mean(pattern, nil), pattern)

	seasonal := make([]float64, len(values))
	for i := range seasonal {
		seasonal[i] = pattern[i%period]
	}

	residual := make([]float64, len(values))
	copy(residual, detrended)
	floats.Sub(residual, seasonal)

	return models.Decomposition{
		Period:   period,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}, nil
}

// centredMovingAverage uses weights [0.5, 1, ..., 1, 0.5]/period for an even
// period and equal weights for an odd one. The first and last period/2
// values are NaN.
func centredMovingAverage(values []float64, period int) []float64 {
	var filt []float64
	if period%2 == 0 {
		filt = make([]float64, period+1)
		for i := range filt {
			filt[i] = 1
		}
		filt[0], filt[period] = 0.5, 0.5
	} else {
		filt = make([]float64, period)
		for i := range filt {
			filt[i] = 1
		}
	}
	floats.Scale(1/float64(period), filt)

	half := period / 2
	out := make([]float64, len(values))
	for i := range out {
		lo := i - half
		hi := lo + len(filt)
		if lo < 0 || hi > len(values) {
			out[i] = math.NaN()
			continue
		}
		out[i] = floats.Dot(filt, values[lo:hi])
	}
	return out
}

// phaseMeans averages the defined values at each phase of the period.
func phaseMeans(values []float64, period int) []float64 {
	means := make([]float64, period)
	buf := make([]float64, 0, len(values)/period+1)
	for k := 0; k < period; k++ {
		buf = buf[:0]
		for i := k; i < len(values); i += period {
			if !math.IsNaN(values[i]) {
				buf = append(buf, values[i])
			}
		}
		if len(buf) == 0 {
			means[k] = math.NaN()
			continue
		}
		means[k] = stat.Mean(buf, nil)
	}
	return means
}

var _ domsvc.Decomposer = (*ClassicalDecomposer)(nil)
