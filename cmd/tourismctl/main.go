// Package main provides the tourismctl command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/tourism-forecast/cmd/tourismctl/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tourismctl",
		Short: "Analyze and forecast Bhutan tourist arrivals from the statistics sheet",
		Long: `tourismctl runs the tourism pipeline against local files.

Commands:
  analyze   Reshape the sheet and test the series for stationarity
  train     Fit a forecasting model and save it
  predict   Predict tourist arrivals for a date
  plot      Render the arrivals chart as HTML or PNG`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewTrainCommand())
	rootCmd.AddCommand(commands.NewPredictCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
