package cmd

import (
	"fmt"

	"github.com/rustyeddy/pricepaths/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage pricepaths configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  pricepaths config init -o pricepaths.toml
  pricepaths config validate -f pricepaths.toml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings. The format
follows the extension: .toml, .yaml/.yml, otherwise JSON.

Example:
  pricepaths config init -o pricepaths.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "pricepaths.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	printf(cmd, "✓ Created default configuration: %s\n", configInitOutput)
	printf(cmd, "\nEdit the file and run with:\n")
	printf(cmd, "  pricepaths --config %s compare --csv <file>\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	printf(cmd, "✓ Configuration valid: %s\n", configValidatePath)
	printf(cmd, "  Simulation: %d periods x %d sims\n", c.Simulation.Periods, c.Simulation.Sims)
	printf(cmd, "  Server: %s (cache %s)\n", c.Server.Addr, c.Server.CacheTTL)
	printf(cmd, "  Log: %s/%s\n", c.Log.Level, c.Log.Format)
	return nil
}
