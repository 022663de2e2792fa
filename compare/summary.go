package compare

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/pricepaths/money"
	"github.com/rustyeddy/pricepaths/process"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats are the row labels of a comparison summary, in table order.
var Stats = []string{"Max", "Min", "Mean", "Std", "Variance"}

// Row is one statistic across all models, in Summary.Columns order.
type Row struct {
	Stat      string    `json:"stat"`
	Values    []float64 `json:"values"`
	Formatted []string  `json:"formatted"`
}

// Summary compares the terminal-price distributions of each model.
type Summary struct {
	RunID     string  `json:"run_id"`
	Seed      uint64  `json:"seed"`
	Periods   int     `json:"periods"`
	Sims      int     `json:"sims"`
	LastPrice float64 `json:"last_price"`

	Columns []string                  `json:"columns"`
	Rows    []Row                     `json:"rows"`
	Params  map[string]process.Params `json:"params"`
}

// terminalStats computes Max, Min, Mean, Std and Variance of the terminal
// prices. Std and Variance use n-1 and are 0 for a single simulation.
func terminalStats(terminal []float64) []float64 {
	mean, variance := stat.MeanVariance(terminal, nil)
	if len(terminal) < 2 || math.IsNaN(variance) {
		variance = 0
	}
	return []float64{
		floats.Max(terminal),
		floats.Min(terminal),
		mean,
		math.Sqrt(variance),
		variance,
	}
}

func newSummary(ensembles []*process.Ensemble) *Summary {
	s := &Summary{
		Columns: make([]string, len(ensembles)),
		Rows:    make([]Row, len(Stats)),
	}
	for i, name := range Stats {
		s.Rows[i] = Row{
			Stat:      name,
			Values:    make([]float64, len(ensembles)),
			Formatted: make([]string, len(ensembles)),
		}
	}
	for j, e := range ensembles {
		s.Columns[j] = e.Model.String()
		for i, v := range terminalStats(e.Terminal()) {
			s.Rows[i].Values[j] = v
			s.Rows[i].Formatted[j] = money.Format(v)
		}
	}
	return s
}

// Value looks up one cell by statistic and model name; ok is false when
// either label is unknown.
func (s *Summary) Value(stat, model string) (float64, bool) {
	col := -1
	for j, c := range s.Columns {
		if strings.EqualFold(c, model) {
			col = j
		}
	}
	if col < 0 {
		return 0, false
	}
	for _, r := range s.Rows {
		if strings.EqualFold(r.Stat, stat) {
			return r.Values[col], true
		}
	}
	return 0, false
}

// Table renders the currency-formatted summary as aligned text.
func (s *Summary) Table() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "\t%s\t\n", strings.Join(s.Columns, "\t"))
	for _, r := range s.Rows {
		fmt.Fprintf(w, "%s\t%s\t\n", r.Stat, strings.Join(r.Formatted, "\t"))
	}
	w.Flush()
	return b.String()
}
