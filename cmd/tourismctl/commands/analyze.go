package commands

import (
	"github.com/spf13/cobra"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	var (
		maxLag   int
		showData bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <csv>",
		Short: "Reshape the statistics sheet and run the ADF stationarity test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			report, err := tourism.TestStationarity(ds, maxLag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showData {
				writeDataset(out, ds)
			}
			writeStationarity(out, report)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLag, "max-lag", 0, "ADF lag length (0 selects it automatically)")
	cmd.Flags().BoolVar(&showData, "show-data", true, "print the reshaped table")

	return cmd
}
