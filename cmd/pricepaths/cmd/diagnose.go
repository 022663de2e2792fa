package cmd

import (
	"encoding/json"

	"github.com/rustyeddy/pricepaths/diagnose"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Characterise returns and suggest a model",
	Long: `Diagnose summarises the log returns of the input series, runs normality,
volatility clustering, jump, mean reversion and autocorrelation tests,
and recommends which process fits best.

Example:
  pricepaths diagnose --instrument SOLUSDT --db pricepaths.db`,
	Args: cobra.NoArgs,
	RunE: runDiagnose,
}

var diagnoseJSON bool

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	addInputFlags(diagnoseCmd)
	diagnoseCmd.Flags().BoolVar(&diagnoseJSON, "json", false, "print results as JSON")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	rs, err := loadSeries(cmd)
	if err != nil {
		return err
	}
	stats, err := diagnose.Summarize(rs)
	if err != nil {
		return err
	}
	res, err := diagnose.Run(rs)
	if err != nil {
		return err
	}
	recs := diagnose.Recommend(res, stats)
	gaps := rs.Gaps()

	if diagnoseJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"stats":           stats,
			"tests":           res.Tests(),
			"recommendations": recs,
			"gaps":            gaps,
		})
	}

	printf(cmd, "Returns (%d):\n", len(rs.LogReturns))
	printf(cmd, "  mean      %.5f\n", stats.Mean)
	printf(cmd, "  std       %.5f\n", stats.Std)
	printf(cmd, "  sharpe    %.5f\n", stats.Sharpe)
	printf(cmd, "  skewness  %.5f\n", stats.Skewness)
	printf(cmd, "  kurtosis  %.5f\n", stats.Kurtosis)
	printf(cmd, "  jb p      %.5f\n", stats.JBPValue)
	printf(cmd, "  min       %.5f\n", stats.Min)
	printf(cmd, "  max       %.5f\n", stats.Max)

	printf(cmd, "\nTests:\n")
	for _, t := range res.Tests() {
		if t.Name == res.Jumps.Name {
			printf(cmd, "  %-15s freq=%.4f  %s\n", t.Name, t.Statistic, t.Conclusion)
			continue
		}
		printf(cmd, "  %-15s p=%.4f  %s\n", t.Name, t.PValue, t.Conclusion)
	}

	if !gaps.Regular() {
		printf(cmd, "\n")
		gaps.Print(cmd.OutOrStdout())
	}

	printf(cmd, "\nRecommendations:\n")
	for _, r := range recs {
		printf(cmd, "  %-8s %-6s %s\n", r.Process, r.Confidence, r.Reason)
	}
	return nil
}
