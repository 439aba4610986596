package presenter

import (
	"math"
	"time"

	"StockScope/internal/domain/models"
	"StockScope/pkg/util"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// gap is how echarts marks a missing point in a series.
const gap = "-"

// PriceChart is the candlestick chart with the moving average overlaid.
func PriceChart(ticker string, series models.PriceSeries) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: ticker + " Stock Analysis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stock Price ($)"}),
	)

	candles := make([]opts.KlineData, series.Len())
	for i, b := range series.Bars {
		// echarts order is open, close, low, high.
		candles[i] = opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}}
	}
	labels := util.DayLabels(series.Dates())
	kline.SetXAxis(labels).AddSeries("Candlestick", candles)

	sma := make([]opts.LineData, series.Len())
	for i, b := range series.Bars {
		sma[i] = lineValue(b.SMA)
	}
	overlay := charts.NewLine()
	overlay.SetXAxis(labels).AddSeries("Moving Average", sma,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "blue"}),
	)
	kline.Overlap(overlay)
	return kline
}

// VolumeChart is the per-bar traded volume.
func VolumeChart(ticker string, series models.PriceSeries) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: ticker + " Volume Analysis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Volume"}),
	)

	volumes := make([]opts.BarData, series.Len())
	for i, b := range series.Bars {
		volumes[i] = opts.BarData{Value: b.Volume}
	}
	bar.SetXAxis(util.DayLabels(series.Dates())).AddSeries("Volume", volumes)
	return bar
}

// DecompositionChart draws trend, seasonal and residual on one axis.
func DecompositionChart(dates []time.Time, d models.Decomposition) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Time Series Decomposition"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Value"}),
	)
	line.SetXAxis(util.DayLabels(dates)).
		AddSeries("Trend", floatLine(d.Trend)).
		AddSeries("Seasonal", floatLine(d.Seasonal)).
		AddSeries("Residual", floatLine(d.Residual))
	return line
}

func lineValue(v models.NullFloat) opts.LineData {
	if !v.Valid {
		return opts.LineData{Value: gap}
	}
	return opts.LineData{Value: v.Float64}
}

func floatLine(xs []float64) []opts.LineData {
	out := make([]opts.LineData, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			out[i] = opts.LineData{Value: gap}
			continue
		}
		out[i] = opts.LineData{Value: x}
	}
	return out
}
