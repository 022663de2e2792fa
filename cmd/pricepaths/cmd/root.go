package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/pricepaths/config"
	"github.com/rustyeddy/pricepaths/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pricepaths",
	Short: "Calibrate and simulate stochastic price processes",
	Long: `Pricepaths fits geometric Brownian motion, Merton jump-diffusion and
Ornstein-Uhlenbeck models to a price history and simulates future paths.

It provides tools for:
  - Comparing terminal price distributions across all three models
  - Value-at-risk curves for a single model
  - Diagnosing return characteristics and suggesting a model
  - Importing candle history into a local SQLite store
  - Serving the same analyses over a JSON API`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console or json)")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	return nil
}

func printf(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}
