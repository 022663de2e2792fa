package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"github.com/rustyeddy/pricepaths/market"
	"github.com/rustyeddy/pricepaths/store"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage stored candle history",
	Long: `Import candle CSV files into the SQLite store and list what is stored.

Subcommands:
  import - Load a candle CSV into the store
  list   - List stored instruments

Examples:
  pricepaths data import data/solusdt_12h.csv --instrument SOLUSDT
  pricepaths data list`,
}

var dataImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Load a candle CSV into the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataImport,
}

var dataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored instruments",
	Args:  cobra.NoArgs,
	RunE:  runDataList,
}

var (
	dataDBPath     string
	dataInstrument string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataListCmd)

	dataCmd.PersistentFlags().StringVarP(&dataDBPath, "db", "d", "", "SQLite candle store (default from config)")
	dataImportCmd.Flags().StringVarP(&dataInstrument, "instrument", "i", "", "instrument name (default: file name)")
}

func openStore() (*store.SQLite, error) {
	path := cfg.Data.DBPath
	if dataDBPath != "" {
		path = dataDBPath
	}
	db, err := store.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	return db, nil
}

func runDataImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	instrument := dataInstrument
	if instrument == "" {
		instrument = strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	candles, err := market.ReadCandlesFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.SaveCandles(instrument, candles)
	if err != nil {
		return fmt.Errorf("import %s: %w", instrument, err)
	}

	log.Info().Str("instrument", instrument).Int("candles", n).Str("file", path).Msg("imported")
	if rs, err := market.FromCandles(candles); err == nil {
		if g := rs.Gaps(); !g.Regular() {
			log.Warn().
				Str("instrument", instrument).
				Int("gaps", g.GapCount).
				Int("missing", g.Missing).
				Int("irregular", g.IrregularGaps).
				Msg("series is not evenly spaced")
		}
	}
	printf(cmd, "✓ Imported %d candles as %s\n", n, instrument)
	return nil
}

func runDataList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.Instruments()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printf(cmd, "No instruments stored.\n")
		return nil
	}

	for _, in := range list {
		printf(cmd, "%-12s %6d candles  %s .. %s\n",
			in.Name, in.Count,
			in.First.Format("2006-01-02 15:04"),
			in.Last.Format("2006-01-02 15:04"))
	}
	return nil
}
