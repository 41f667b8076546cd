package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/tourism-forecast/internal/plot"
	"github.com/i474232898/tourism-forecast/internal/tourism"
)

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	var (
		outPath   string
		modelPath string
		years     int
	)

	cmd := &cobra.Command{
		Use:   "plot <csv>",
		Short: "Render the arrivals chart (.html or .png by --out extension)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := strings.ToLower(filepath.Ext(outPath))
			if ext != ".png" && ext != ".html" && ext != ".htm" {
				return fmt.Errorf("unsupported output %q: use .html or .png", outPath)
			}

			ds, err := loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var forecast []tourism.Observation
			if years > 0 {
				model, err := fitUpload(ds, modelPath, defaultOrder, false)
				if err != nil {
					return err
				}
				if forecast, err = model.Forecast(years); err != nil {
					return err
				}
			}

			var buf bytes.Buffer
			if ext == ".png" {
				err = plot.RenderPNG(&buf, ds, forecast)
			} else {
				var report *tourism.StationarityReport
				if report, err = tourism.TestStationarity(ds, 0); err != nil {
					return err
				}
				err = plot.RenderHTML(&buf, ds, report, forecast)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "arrivals.html", "output file (.html or .png)")
	cmd.Flags().StringVar(&modelPath, "model", defaultModelPath, "model artifact used for --forecast")
	cmd.Flags().IntVar(&years, "forecast", 0, "years to forecast past the data")

	return cmd
}
