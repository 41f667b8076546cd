// Package commands implements the tourismctl subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/i474232898/tourism-forecast/internal/tourism"
	"github.com/i474232898/tourism-forecast/internal/tourism/sources"
)

const (
	defaultModelPath = "data/model.json"
	defaultOrder     = "1,1,1"
)

func loadDataset(ctx context.Context, path string) (*tourism.Dataset, error) {
	rc, err := sources.NewFileSource(path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return tourism.ReadDataset(filepath.Base(path), rc, tourism.DefaultLayout())
}

// fitUpload applies the saved model's order to ds. An explicit order, or a
// missing model, fits orderStr instead.
func fitUpload(ds *tourism.Dataset, modelPath, orderStr string, explicit bool) (*tourism.Model, error) {
	if !explicit {
		saved, err := tourism.LoadModel(modelPath)
		switch {
		case err == nil:
			return saved.Apply(ds)
		case !errors.Is(err, tourism.ErrModelNotFound):
			return nil, err
		}
	}

	order, err := tourism.ParseOrder(orderStr)
	if err != nil {
		return nil, err
	}
	return tourism.Train(ds, order)
}

func formatCount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func writeDataset(w io.Writer, ds *tourism.Dataset) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("%s (%d rows)", ds.Name, ds.Len()))
	tbl.AppendHeader(table.Row{"Index", "Years", "Number of Tourists", ""})

	for _, o := range ds.Observations {
		note := ""
		if o.Imputed {
			note = "filled with mean"
		}
		tbl.AppendRow(table.Row{o.Index, o.Year, formatCount(o.Tourists), note})
	}
	tbl.Render()
}

func writeStationarity(w io.Writer, r *tourism.StationarityReport) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("ADF Test Results")
	tbl.AppendRows([]table.Row{
		{"ADF Test Statistic", fmt.Sprintf("%.4f", r.Statistic)},
		{"p-value", fmt.Sprintf("%.4f", r.PValue)},
		{"# Lags Used", r.LagsUsed},
		{"Number of Observations Used", r.NObs},
	})
	for _, level := range []string{"1%", "5%", "10%"} {
		if v, ok := r.CriticalValues[level]; ok {
			tbl.AppendRow(table.Row{"Critical Value (" + level + ")", fmt.Sprintf("%.4f", v)})
		}
	}
	if r.KPSS != nil {
		tbl.AppendSeparator()
		tbl.AppendRow(table.Row{"KPSS Statistic", fmt.Sprintf("%.4f", r.KPSS.Statistic)})
		tbl.AppendRow(table.Row{"KPSS p-value", fmt.Sprintf("%.4f", r.KPSS.PValue)})
	}
	tbl.Render()

	verdict := color.New(color.FgYellow)
	if r.Stationary {
		verdict = color.New(color.FgGreen)
	}
	verdict.Fprintln(w, r.Conclusion)
}
