package cmd

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rustyeddy/pricepaths/compare"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Simulate all models and compare terminal prices",
	Long: `Compare calibrates GBM, JDP and OU to the input series, simulates each
concurrently and tabulates Max, Min, Mean, Std and Variance of the
terminal prices.

Example:
  pricepaths compare --csv data/solusdt_12h.csv --periods 30 --sims 1000 --seed 1234`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

var compareJSON bool

func init() {
	rootCmd.AddCommand(compareCmd)
	addInputFlags(compareCmd)
	addGridFlags(compareCmd)
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "print the summary as JSON")
}

// runComparison loads the series and runs one comparison with the
// resolved grid, returning the orchestrator for drill-down.
func runComparison(cmd *cobra.Command) (*compare.Orchestrator, *compare.Summary, error) {
	rs, err := loadSeries(cmd)
	if err != nil {
		return nil, nil, err
	}
	periods, sims, seed, timeout, err := grid(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	o := compare.New(rs)
	s, err := o.Compare(ctx, periods, sims, seed)
	if err != nil {
		return nil, nil, err
	}
	return o, s, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	_, s, err := runComparison(cmd)
	if err != nil {
		return err
	}

	if compareJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	printf(cmd, "Run %s (seed %d): %d periods x %d sims from %.4f\n\n", s.RunID, s.Seed, s.Periods, s.Sims, s.LastPrice)
	printf(cmd, "%s\n", s.Table())

	names := make([]string, 0, len(s.Params))
	for name := range s.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	printf(cmd, "Calibration:\n")
	for _, name := range names {
		printf(cmd, "  %s\n", s.Params[name])
	}
	return nil
}
