package models

import (
	"encoding/json"
	"math"
	"time"
)

// NullFloat is a float64 that may be undefined (e.g. a moving average
// before the window has filled).
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Defined returns a valid NullFloat holding v.
func Defined(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// NullFromFloat treats NaN as undefined.
func NullFromFloat(v float64) NullFloat {
	if math.IsNaN(v) {
		return NullFloat{}
	}
	return Defined(v)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// Bar is one daily OHLCV record plus the derived moving average.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	SMA    NullFloat `json:"sma"`
}

// PriceSeries is a chronologically ordered set of bars for one symbol.
type PriceSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

func (s PriceSeries) Len() int    { return len(s.Bars) }
func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }

// Last returns the most recent bar.
func (s PriceSeries) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Closes extracts the closing prices in order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Dates extracts the bar dates in order.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}
