package models

// AnalysisRequest carries the dashboard inputs. Used by both the HTML and
// the JSON endpoints.
type AnalysisRequest struct {
	Ticker   string `query:"ticker" json:"ticker" validate:"required,max=32"`
	Exchange string `query:"exchange" json:"exchange" default:"USA" validate:"oneof=India USA Nepal UK Australia"`
}
