package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

// NewTrainCommand creates the train command.
func NewTrainCommand() *cobra.Command {
	var (
		modelPath string
		orderStr  string
	)

	cmd := &cobra.Command{
		Use:   "train <csv>",
		Short: "Fit a SARIMA model to the sheet and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := tourism.ParseOrder(orderStr)
			if err != nil {
				return err
			}

			ds, err := loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			model, err := tourism.Train(ds, order)
			if err != nil {
				return err
			}
			if err := model.SaveModel(modelPath); err != nil {
				return err
			}

			s := model.Summary()
			fmt.Fprintf(cmd.OutOrStdout(), "Saved SARIMA%s trained on %d-%d to %s (AIC %.2f, BIC %.2f)\n",
				s.Order, s.FirstYear, s.LastYear, modelPath, s.AIC, s.BIC)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", defaultModelPath, "model artifact path")
	cmd.Flags().StringVar(&orderStr, "order", defaultOrder, "model order as p,d,q or p,d,q,P,D,Q,m")

	return cmd
}
