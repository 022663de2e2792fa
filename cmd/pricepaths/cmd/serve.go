package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/pricepaths/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve comparisons, risk and diagnostics over HTTP",
	Long: `Serve loads one series and exposes it through a JSON API:

  GET  /healthz
  GET  /api/v1/diagnostics
  POST /api/v1/compare        {"periods": 30, "sims": 1000, "seed": 1234}
  GET  /api/v1/risk/:model    ?periods=30&sims=1000&seed=1234

Example:
  pricepaths serve --csv data/solusdt_12h.csv --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr     string
	serveCacheTTL time.Duration
)

func init() {
	rootCmd.AddCommand(serveCmd)
	addInputFlags(serveCmd)
	addGridFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().DurationVar(&serveCacheTTL, "cache-ttl", 0, "how long seeded comparisons are reused (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rs, err := loadSeries(cmd)
	if err != nil {
		return err
	}
	periods, sims, seed, timeout, err := grid(cmd)
	if err != nil {
		return err
	}

	ttl, err := cfg.Server.CacheTTLDuration()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cache-ttl") {
		ttl = serveCacheTTL
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(rs, server.Options{
		Periods:  periods,
		Sims:     sims,
		Seed:     seed,
		Timeout:  timeout,
		CacheTTL: ttl,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, addr)
}
