package models

// Recommendation is the naive moving-average signal.
type Recommendation string

const (
	Buy  Recommendation = "Buy"
	Sell Recommendation = "Sell"
)

func (r Recommendation) String() string { return string(r) }
