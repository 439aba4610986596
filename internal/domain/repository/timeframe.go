package repository

import "time"

// Lookback is the history window requested from the provider.
type Lookback string

// Interval is the bar resolution requested from the provider.
type Interval string

const (
	Lookback1mo Lookback = "1mo"
	Lookback3mo Lookback = "3mo"
	Lookback6mo Lookback = "6mo"
	Lookback1y  Lookback = "1y"
	Lookback2y  Lookback = "2y"
	Lookback5y  Lookback = "5y"

	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
)

// IsValidLookback returns true if lb is a supported lookback.
func IsValidLookback(lb Lookback) bool {
	switch lb {
	case Lookback1mo, Lookback3mo, Lookback6mo, Lookback1y, Lookback2y, Lookback5y:
		return true
	default:
		return false
	}
}

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1d, Interval1wk, Interval1mo:
		return true
	default:
		return false
	}
}

// DefaultLookback is one year of history.
func DefaultLookback() Lookback { return Lookback1y }

// DefaultInterval is daily bars.
func DefaultInterval() Interval { return Interval1d }

// NormalizeLookback converts raw string to a valid lookback (or default).
func NormalizeLookback(s string) Lookback {
	lb := Lookback(s)
	if IsValidLookback(lb) {
		return lb
	}
	return DefaultLookback()
}

// NormalizeInterval converts raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// Start returns the beginning of the lookback window ending at end.
func (lb Lookback) Start(end time.Time) time.Time {
	switch lb {
	case Lookback1mo:
		return end.AddDate(0, -1, 0)
	case Lookback3mo:
		return end.AddDate(0, -3, 0)
	case Lookback6mo:
		return end.AddDate(0, -6, 0)
	case Lookback2y:
		return end.AddDate(-2, 0, 0)
	case Lookback5y:
		return end.AddDate(-5, 0, 0)
	default:
		return end.AddDate(-1, 0, 0)
	}
}
