package cmd

import (
	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the pricepaths CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		printf(cmd, "pricepaths version %s\n", version)
		printf(cmd, "Stochastic price path calibration and simulation\n")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
