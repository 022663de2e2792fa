package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/pricepaths/diagnose"
	"github.com/rustyeddy/pricepaths/process"
	"github.com/rustyeddy/pricepaths/risk"
)

type compareRequest struct {
	Periods int    `json:"periods" binding:"omitempty,min=1"`
	Sims    int    `json:"sims" binding:"omitempty,min=1"`
	Seed    *int64 `json:"seed"`
}

type riskResponse struct {
	Model    string            `json:"model"`
	Headline string            `json:"headline,omitempty"`
	Report   *risk.Report      `json:"report,omitempty"`
	Display  map[string]string `json:"display,omitempty"`
	RunID    string            `json:"run_id,omitempty"`
	Cached   bool              `json:"cached"`
	Error    string            `json:"error,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"observations": s.series.Len(),
		"last_price":   s.series.LastPrice(),
		"last_time":    s.series.LastTime(),
	})
}

func (s *Server) diagnostics(c *gin.Context) {
	stats, err := diagnose.Summarize(s.series)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := diagnose.Run(s.series)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":           stats,
		"tests":           res.Tests(),
		"recommendations": diagnose.Recommend(res, stats),
		"gaps":            s.series.Gaps(),
	})
}

func (s *Server) compare(c *gin.Context) {
	var req compareRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request: " + err.Error()})
			return
		}
	}
	periods, sims, seed := s.grid(req.Periods, req.Sims, req.Seed)

	r, cached, err := s.simulate(c.Request.Context(), periods, sims, seed)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": r.summary,
		"table":   r.summary.Table(),
		"cached":  cached,
	})
}

func (s *Server) risk(c *gin.Context) {
	name := c.Param("model")
	m, ok := process.ParseModel(name)
	if !ok {
		c.JSON(http.StatusNotFound, riskResponse{Model: name, Error: "unknown model"})
		return
	}

	periods, err := queryInt(c, "periods")
	if err != nil {
		fail(c, err)
		return
	}
	sims, err := queryInt(c, "sims")
	if err != nil {
		fail(c, err)
		return
	}
	var seed *int64
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fail(c, process.ErrInvalidInput)
			return
		}
		seed = &n
	}
	periods, sims, seed = s.grid(periods, sims, seed)

	r, cached, err := s.simulate(c.Request.Context(), periods, sims, seed)
	if err != nil {
		fail(c, err)
		return
	}

	rep, err := risk.Analyze(r.ensembles[m], s.series.LastPrice())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, riskResponse{
		Model:    m.String(),
		Headline: rep.Headline(),
		Report:   &rep,
		Display:  rep.Formatted(),
		RunID:    r.summary.RunID,
		Cached:   cached,
	})
}

// grid fills unset request values from the server defaults.
func (s *Server) grid(periods, sims int, seed *int64) (int, int, *int64) {
	if periods == 0 {
		periods = s.opts.Periods
	}
	if sims == 0 {
		sims = s.opts.Sims
	}
	if seed == nil {
		seed = s.opts.Seed
	}
	return periods, sims, seed
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, process.ErrInvalidInput
	}
	return n, nil
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, process.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
