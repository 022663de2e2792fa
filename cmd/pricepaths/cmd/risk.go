package cmd

import (
	"fmt"

	"github.com/rustyeddy/pricepaths/money"
	"github.com/rustyeddy/pricepaths/risk"
	"github.com/spf13/cobra"
)

var riskCmd = &cobra.Command{
	Use:   "risk <model>",
	Short: "Value-at-risk for one model's simulated paths",
	Long: `Risk runs a comparison and reports the loss percentile curve, the 95th
percentile loss and the spread of terminal price changes for one model
(gbm, jdp or ou).

Example:
  pricepaths risk jdp --csv data/solusdt_12h.csv --periods 30 --sims 5000`,
	Args: cobra.ExactArgs(1),
	RunE: runRisk,
}

// Percentiles printed from the loss curve.
var riskLevels = []int{1, 5, 25, 50, 75, 95, 99}

func init() {
	rootCmd.AddCommand(riskCmd)
	addInputFlags(riskCmd)
	addGridFlags(riskCmd)
}

func runRisk(cmd *cobra.Command, args []string) error {
	o, s, err := runComparison(cmd)
	if err != nil {
		return err
	}

	e := o.Select(args[0])
	if e.Empty() {
		return fmt.Errorf("unknown model %q (supported: gbm, jdp, ou)", args[0])
	}

	rep, err := risk.Analyze(e, s.LastPrice)
	if err != nil {
		return err
	}

	printf(cmd, "%s: %s\n\n", rep.Model, rep.Headline())
	printf(cmd, "Loss percentiles over %d periods:\n", s.Periods)
	for _, q := range riskLevels {
		printf(cmd, "  P%-3d %s\n", q, money.Format(rep.Curve[q-1]))
	}
	printf(cmd, "\nChange in price:\n")
	printf(cmd, "  max  %s (%s)\n", money.Format(rep.MaxChange), rep.MaxPath)
	printf(cmd, "  min  %s (%s)\n", money.Format(rep.MinChange), rep.MinPath)
	printf(cmd, "  mean %s\n", money.Format(rep.MeanChange))
	return nil
}
