package cmd

import (
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/rustyeddy/pricepaths/market"
	"github.com/rustyeddy/pricepaths/store"
	"github.com/spf13/cobra"
)

// Input and grid flags shared by the analysis commands. Set flags
// override the config file.
var (
	inCSV        string
	inDB         string
	inInstrument string

	gridPeriods int
	gridSims    int
	gridSeed    int64
	gridTimeout time.Duration
)

func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inCSV, "csv", "", "candle CSV file (closetime,close[,open,high,low,volume,opentime])")
	c.Flags().StringVarP(&inDB, "db", "d", "", "SQLite candle store")
	c.Flags().StringVarP(&inInstrument, "instrument", "i", "", "instrument to load from the store")
}

func addGridFlags(c *cobra.Command) {
	c.Flags().IntVarP(&gridPeriods, "periods", "p", 0, "future periods to simulate")
	c.Flags().IntVarP(&gridSims, "sims", "n", 0, "paths per model")
	c.Flags().Int64Var(&gridSeed, "seed", 0, "random seed (omit for a fresh one)")
	c.Flags().DurationVar(&gridTimeout, "timeout", 0, "give up on a comparison after this long")
}

func applyInputFlags(c *cobra.Command) {
	if c.Flags().Changed("csv") {
		cfg.Data.CSV = inCSV
		cfg.Data.Instrument = ""
	}
	if c.Flags().Changed("db") {
		cfg.Data.DBPath = inDB
	}
	if c.Flags().Changed("instrument") {
		cfg.Data.Instrument = inInstrument
		cfg.Data.CSV = ""
	}
}

// grid resolves periods, sims, seed and timeout from flags and config.
func grid(c *cobra.Command) (periods, sims int, seed *int64, timeout time.Duration, err error) {
	periods, sims, seed = cfg.Simulation.Periods, cfg.Simulation.Sims, cfg.Simulation.Seed
	if c.Flags().Changed("periods") {
		periods = gridPeriods
	}
	if c.Flags().Changed("sims") {
		sims = gridSims
	}
	if c.Flags().Changed("seed") {
		s := gridSeed
		seed = &s
	}
	if c.Flags().Changed("timeout") {
		timeout = gridTimeout
	} else if timeout, err = cfg.Simulation.TimeoutDuration(); err != nil {
		return 0, 0, nil, 0, fmt.Errorf("simulation.timeout: %w", err)
	}
	return periods, sims, seed, timeout, nil
}

// loadSeries reads candles from the configured CSV file or store
// instrument and turns them into a return series.
func loadSeries(c *cobra.Command) (*market.ReturnSeries, error) {
	applyInputFlags(c)

	var (
		candles []market.Candle
		source  string
		err     error
	)
	switch {
	case cfg.Data.CSV != "":
		source = cfg.Data.CSV
		candles, err = market.ReadCandlesFile(cfg.Data.CSV)
	case cfg.Data.Instrument != "":
		source = cfg.Data.Instrument
		var db *store.SQLite
		if db, err = store.NewSQLite(cfg.Data.DBPath); err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		candles, err = db.LoadCandles(cfg.Data.Instrument)
	default:
		return nil, fmt.Errorf("no input: pass --csv or --instrument")
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}

	rs, err := market.FromCandles(candles)
	if err != nil {
		return nil, fmt.Errorf("series from %s: %w", source, err)
	}

	tf, err := market.SecondsToTFString(int64(rs.Interval().Seconds()))
	if err != nil {
		tf = rs.Interval().String()
	}
	log.Debug().
		Str("source", source).
		Int("observations", rs.Len()).
		Str("interval", tf).
		Float64("last_price", rs.LastPrice()).
		Msg("loaded series")
	return rs, nil
}
