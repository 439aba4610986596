package models

import "encoding/json"

// Decomposition holds the additive trend/seasonal/residual split of a series.
// Undefined positions (the trend edges) are NaN.
type Decomposition struct {
	Period   int       `json:"period"`
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
}

func (d Decomposition) Len() int { return len(d.Trend) }

// MarshalJSON encodes NaN as null since encoding/json rejects it.
func (d Decomposition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Period   int         `json:"period"`
		Trend    []NullFloat `json:"trend"`
		Seasonal []NullFloat `json:"seasonal"`
		Residual []NullFloat `json:"residual"`
	}{
		Period:   d.Period,
		Trend:    nullable(d.Trend),
		Seasonal: nullable(d.Seasonal),
		Residual: nullable(d.Residual),
	})
}

func nullable(xs []float64) []NullFloat {
	out := make([]NullFloat, len(xs))
	for i, x := range xs {
		out[i] = NullFromFloat(x)
	}
	return out
}
