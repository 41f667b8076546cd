// Package plot renders the arrivals series as an interactive HTML chart or a
// static PNG image.
package plot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

const (
	xAxisLabel  = "Years"
	yAxisLabel  = "Number of Tourists"
	chartWidth  = "100%"
	chartHeight = "500px"
	lineWidth   = 2
)

// Title returns the chart title for the span of ds.
func Title(ds *tourism.Dataset) string {
	if ds.Len() == 0 {
		return "Bhutan Tourist Arrivals"
	}
	return fmt.Sprintf("Bhutan Tourist Arrivals (%d-%d)", ds.FirstYear(), ds.LastYear())
}

// LineChart builds the arrivals chart. forecast may be empty; when present it
// is drawn as a dashed continuation of the observed series.
func LineChart(ds *tourism.Dataset, report *tourism.StationarityReport, forecast []tourism.Observation) *charts.Line {
	title := opts.Title{Title: Title(ds)}
	if report != nil {
		title.Subtitle = fmt.Sprintf("ADF statistic %.4f, p-value %.4f, %d lags, %d observations",
			report.Statistic, report.PValue, report.LagsUsed, report.NObs)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title(ds),
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(forecast) > 0), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xAxisLabel,
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yAxisLabel,
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)

	total := ds.Len() + len(forecast)
	labels := make([]string, 0, total)
	observed := make([]opts.LineData, 0, total)
	for _, o := range ds.Observations {
		labels = append(labels, strconv.Itoa(o.Index))
		observed = append(observed, opts.LineData{Value: o.Tourists})
	}

	line.SetXAxis(labels)
	line.AddSeries(yAxisLabel, observed,
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)

	if len(forecast) > 0 {
		// Pad so the forecast starts at the last observation.
		projected := make([]opts.LineData, 0, total)
		for i := 0; i < ds.Len()-1; i++ {
			projected = append(projected, opts.LineData{Value: "-"})
		}
		if ds.Len() > 0 {
			projected = append(projected, opts.LineData{Value: ds.Observations[ds.Len()-1].Tourists})
		}
		for _, o := range forecast {
			labels = append(labels, strconv.Itoa(o.Index))
			projected = append(projected, opts.LineData{Value: o.Tourists})
		}

		line.SetXAxis(labels)
		line.AddSeries("Forecast", projected,
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth, Type: "dashed"}),
		)
	}

	return line
}

// RenderHTML writes a standalone HTML page with the arrivals chart.
func RenderHTML(w io.Writer, ds *tourism.Dataset, report *tourism.StationarityReport, forecast []tourism.Observation) error {
	if err := LineChart(ds, report, forecast).Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
