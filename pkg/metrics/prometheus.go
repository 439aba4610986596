package metrics

import (
	"sync"

	"StockScope/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stockscope"

// DefaultPriceSymbols bounds how many symbols keep a last_close_price series.
const DefaultPriceSymbols = 100

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runs            *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	latency         *prometheus.HistogramVec

	// symbols are user input, so the gauge keeps only the most recent ones.
	mu           sync.Mutex
	priceSymbols []string
	maxSymbols   int
}

// New creates a recorder registered with the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the recorder's collectors with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		maxSymbols: DefaultPriceSymbols,
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_runs_total",
				Help:      "Analysis runs by outcome status and failure reason",
			},
			[]string{"status", "reason"},
		),
		recommendations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_total",
				Help:      "Buy/Sell recommendations issued",
			},
			[]string{"label"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_close_price",
				Help:      "Most recent close seen for a recently analysed symbol",
			},
			[]string{"symbol"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
	}
}

// RecordRun counts a finished analysis run. reason is empty on success.
func (r *Recorder) RecordRun(status, reason string) {
	if reason == "" {
		reason = "none"
	}
	r.runs.WithLabelValues(status, reason).Inc()
}

func (r *Recorder) RecordRecommendation(label string) {
	r.recommendations.WithLabelValues(label).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol. Once more than
// maxSymbols symbols are tracked the least recently updated series is removed.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.priceSymbols {
		if s == symbol {
			r.priceSymbols = append(r.priceSymbols[:i], r.priceSymbols[i+1:]...)
			break
		}
	}
	r.priceSymbols = append(r.priceSymbols, symbol)
	for len(r.priceSymbols) > r.maxSymbols {
		r.lastPrice.DeleteLabelValues(r.priceSymbols[0])
		r.priceSymbols = r.priceSymbols[1:]
	}
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordRun(string, string)        {}
func (Nop) RecordRecommendation(string)     {}
func (Nop) RecordError(string)              {}
func (Nop) RecordLastPrice(string, float64) {}
func (Nop) RecordLatency(string, float64)   {}

var (
	_ repository.Metrics = (*Recorder)(nil)
	_ repository.Metrics = Nop{}
)
