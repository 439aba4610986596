// Package presenter turns an analysis Outcome into display-ready text and
// chart options. It formats only; all numbers come from the pipeline.
package presenter

import (
	"encoding/json"
	"html/template"

	"StockScope/internal/usecase"
)

// Chart is one rendered chart: a DOM id plus the echarts option object.
type Chart struct {
	ID      string                 `json:"id"`
	Heading string                 `json:"heading"`
	Options map[string]interface{} `json:"options"`
}

// OptionsJS returns the options as a JavaScript object literal.
func (c Chart) OptionsJS() (template.JS, error) {
	b, err := json.Marshal(c.Options)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// View is what the dashboard and the JSON API show for one run.
type View struct {
	Status  usecase.Status `json:"status"`
	Reason  usecase.Reason `json:"reason,omitempty"`
	Warning string         `json:"warning,omitempty"`

	Title          string `json:"title,omitempty"`
	Industry       string `json:"industry,omitempty"`
	MarketCap      string `json:"market_cap,omitempty"`
	CurrentPrice   string `json:"current_price,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`

	Charts []Chart `json:"charts,omitempty"`
}

func (v View) OK() bool { return v.Status == usecase.StatusOK }

// Present maps an Outcome to a View. Failure reasons become warning text here.
func Present(out usecase.Outcome) View {
	v := View{Status: out.Status, Reason: out.Reason}
	switch out.Status {
	case usecase.StatusNoData:
		v.Warning = NoDataWarning
		return v
	case usecase.StatusFailed:
		v.Warning = ErrorWarning(out.Description())
		return v
	}

	r := out.Report
	if r == nil {
		v.Status = usecase.StatusFailed
		v.Warning = ErrorWarning("empty report")
		return v
	}

	v.Title = CompanyTitle(r.Company.Name, r.Symbol)
	v.Industry = IndustryLine(r.Company.Industry)
	v.MarketCap = MarketCapLine(r.Company.MarketCap)
	if last, ok := r.Series.Last(); ok {
		v.CurrentPrice = CurrentPriceLine(last.Close)
	}
	v.Recommendation = r.Recommendation.String()

	price := PriceChart(r.Ticker, r.Series)
	price.Validate()
	volume := VolumeChart(r.Ticker, r.Series)
	volume.Validate()
	decomposition := DecompositionChart(r.Series.Dates(), r.Decomposition)
	decomposition.Validate()

	v.Charts = []Chart{
		{ID: "price", Heading: "Real-Time Stock Price Plot", Options: price.JSON()},
		{ID: "volume", Heading: "Volume Analysis", Options: volume.JSON()},
		{ID: "decomposition", Heading: "Time Series Decomposition", Options: decomposition.JSON()},
	}
	return v
}
