package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

// NewPredictCommand creates the predict command.
func NewPredictCommand() *cobra.Command {
	var (
		modelPath string
		orderStr  string
		dateStr   string
	)

	cmd := &cobra.Command{
		Use:   "predict --date YYYY-MM-DD [csv]",
		Short: "Predict tourist arrivals for a date",
		Long: `Predict tourist arrivals for the year of --date.

With a CSV argument the saved model's order is fitted to that sheet
(--order overrides it, and is used when no model is saved); otherwise the
saved model at --model is used as trained.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dateStr == "" {
				return errors.New("--date is required")
			}
			date, err := time.Parse(time.DateOnly, dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", dateStr)
			}

			var model *tourism.Model
			if len(args) == 1 {
				ds, err := loadDataset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if model, err = fitUpload(ds, modelPath, orderStr, cmd.Flags().Changed("order")); err != nil {
					return err
				}
			} else if model, err = tourism.LoadModel(modelPath); err != nil {
				if errors.Is(err, tourism.ErrModelNotFound) {
					return fmt.Errorf("%w; run `tourismctl train <csv>` or pass a CSV file", err)
				}
				return err
			}

			p, err := model.Predict(date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p.Message())
			switch {
			case p.InSample:
				fmt.Fprintf(out, "(observed value for %d)\n", p.Year)
			default:
				fmt.Fprintf(out, "(%d years ahead, 95%% interval %s to %s)\n",
					p.StepsAhead, formatCount(p.Lower), formatCount(p.Upper))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "prediction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&modelPath, "model", defaultModelPath, "model artifact path")
	cmd.Flags().StringVar(&orderStr, "order", defaultOrder, "model order for a CSV argument; overrides the saved model's")

	return cmd
}
