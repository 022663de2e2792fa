package process

import (
	"fmt"
	"time"
)

// Ensemble is a set of simulated price paths for one model. Paths is
// indexed [step][sim]; step 0 is the last observed price in every column.
type Ensemble struct {
	Model Model
	Times []time.Time
	Paths [][]float64
}

// Empty reports whether the ensemble holds no paths, which is what a
// drill-down on an unknown model returns.
func (e *Ensemble) Empty() bool {
	return e == nil || len(e.Paths) == 0
}

// Periods is the number of simulated steps (rows minus the anchor row).
func (e *Ensemble) Periods() int {
	if e.Empty() {
		return 0
	}
	return len(e.Paths) - 1
}

func (e *Ensemble) Sims() int {
	if e.Empty() {
		return 0
	}
	return len(e.Paths[0])
}

// Columns returns the column labels sim_1..sim_n.
func (e *Ensemble) Columns() []string {
	cols := make([]string, e.Sims())
	for i := range cols {
		cols[i] = ColumnName(i)
	}
	return cols
}

// ColumnName labels the zero-based simulation index k.
func ColumnName(k int) string {
	return fmt.Sprintf("sim_%d", k+1)
}

// Column returns the path of simulation k.
func (e *Ensemble) Column(k int) []float64 {
	out := make([]float64, len(e.Paths))
	for t, row := range e.Paths {
		out[t] = row[k]
	}
	return out
}

// Terminal returns a copy of the last row.
func (e *Ensemble) Terminal() []float64 {
	if e.Empty() {
		return nil
	}
	return append([]float64(nil), e.Paths[len(e.Paths)-1]...)
}

func newGrid(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	grid := make([][]float64, rows)
	for i := range grid {
		grid[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return grid
}
