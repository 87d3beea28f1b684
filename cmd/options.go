package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/financing-advisor/internal/catalog"
	"github.com/sells-group/financing-advisor/internal/finance"
)

var (
	optionsCreditScore  int
	optionsVehiclePrice float64
	optionsDownPayment  float64
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print financing options for a credit profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		lenders := catalog.LoadLenders(cfg.Data.LendersPath)
		if len(lenders) == 0 {
			return eris.Errorf("no lender data at %s", cfg.Data.LendersPath)
		}

		down := optionsDownPayment
		if down == 0 {
			down = optionsVehiclePrice * 0.1
		}

		offers := finance.ComputeOptions(lenders, optionsCreditScore, optionsVehiclePrice, down)
		zap.L().Info("computed financing options",
			zap.Int("lenders", len(lenders)),
			zap.Int("offers", len(offers)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(offers); err != nil {
			return eris.Wrap(err, "encode offers")
		}
		return nil
	},
}

func init() {
	optionsCmd.Flags().IntVar(&optionsCreditScore, "credit-score", 700, "credit score")
	optionsCmd.Flags().Float64Var(&optionsVehiclePrice, "price", 30000, "vehicle price")
	optionsCmd.Flags().Float64Var(&optionsDownPayment, "down", 0, "down payment (default 10% of price)")
	rootCmd.AddCommand(optionsCmd)
}
