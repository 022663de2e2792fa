// Package server exposes comparisons, risk reports and diagnostics over
// a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
	"github.com/rustyeddy/pricepaths/cache"
	"github.com/rustyeddy/pricepaths/compare"
	"github.com/rustyeddy/pricepaths/market"
	"github.com/rustyeddy/pricepaths/process"
)

// Options configures a Server. Periods and Sims are used when a request
// leaves them out.
type Options struct {
	Periods  int
	Sims     int
	Seed     *int64
	Timeout  time.Duration
	CacheTTL time.Duration
	Clock    cache.Clock
}

type runKey struct {
	periods, sims int
	seed          int64
}

// run is a finished comparison with the ensembles it summarised.
type run struct {
	summary   *compare.Summary
	ensembles map[process.Model]*process.Ensemble
}

type Server struct {
	opts   Options
	series *market.ReturnSeries
	orch   *compare.Orchestrator
	runs   *cache.TTL[runKey, *run]
	router *gin.Engine

	// mu serialises comparisons; the orchestrator keeps only the latest
	// ensembles.
	mu sync.Mutex
}

func New(series *market.ReturnSeries, opts Options) *Server {
	s := &Server{
		opts:   opts,
		series: series,
		orch:   compare.New(series),
		runs:   cache.New[runKey, *run](opts.CacheTTL, opts.Clock),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)
	api := r.Group("/api/v1")
	{
		api.GET("/diagnostics", s.diagnostics)
		api.POST("/compare", s.compare)
		api.GET("/risk/:model", s.risk)
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Int("observations", s.series.Len()).Msg("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// simulate returns the comparison for the given grid, from cache when
// the seed is fixed and a fresh enough run exists.
func (s *Server) simulate(ctx context.Context, periods, sims int, seed *int64) (*run, bool, error) {
	load := func() (*run, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
			defer cancel()
		}

		summary, err := s.orch.Compare(ctx, periods, sims, seed)
		if err != nil {
			return nil, err
		}
		r := &run{summary: summary, ensembles: map[process.Model]*process.Ensemble{}}
		for _, m := range process.Models {
			r.ensembles[m] = s.orch.Select(m.String())
		}
		return r, nil
	}

	if seed == nil {
		r, err := load()
		return r, false, err
	}
	return s.runs.GetOrLoad(runKey{periods, sims, *seed}, load)
}
