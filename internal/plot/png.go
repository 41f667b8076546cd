package plot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

var (
	observedColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	forecastColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// RenderPNG writes a static line plot of ds (and forecast, if any) as PNG.
func RenderPNG(w io.Writer, ds *tourism.Dataset, forecast []tourism.Observation) error {
	if ds.Len() == 0 {
		return fmt.Errorf("render png: empty dataset")
	}

	p := plot.New()
	p.Title.Text = Title(ds)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xAxisLabel
	p.Y.Label.Text = yAxisLabel
	p.Add(plotter.NewGrid())

	observed := make(plotter.XYs, ds.Len())
	for i, o := range ds.Observations {
		observed[i].X = float64(o.Index)
		observed[i].Y = o.Tourists
	}

	line, points, err := plotter.NewLinePoints(observed)
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	line.Color = observedColor
	line.Width = vg.Points(2)
	points.Color = observedColor
	p.Add(line, points)
	p.Legend.Add(yAxisLabel, line)

	if len(forecast) > 0 {
		last := ds.Observations[ds.Len()-1]
		projected := make(plotter.XYs, 0, len(forecast)+1)
		projected = append(projected, plotter.XY{X: float64(last.Index), Y: last.Tourists})
		for _, o := range forecast {
			projected = append(projected, plotter.XY{X: float64(o.Index), Y: o.Tourists})
		}

		fl, err := plotter.NewLine(projected)
		if err != nil {
			return fmt.Errorf("render png: %w", err)
		}
		fl.Color = forecastColor
		fl.Width = vg.Points(2)
		fl.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(fl)
		p.Legend.Add("Forecast", fl)
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}
