package risk

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/pricepaths/money"
	"github.com/rustyeddy/pricepaths/process"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CurvePoints is the number of percentile ranks on the loss curve.
const CurvePoints = 100

// p95Rank is the zero-based curve index reported as the P95 loss. The
// curve is ordered by ascending loss, so this is the 5th percentile rank.
const p95Rank = 4

// Report is the loss distribution of one model's simulated outcomes.
type Report struct {
	Model     process.Model `json:"model"`
	LastPrice float64       `json:"last_price"`

	// Curve[i] is percentile i+1 of last price minus terminal price.
	Curve   []float64 `json:"curve"`
	P95Loss float64   `json:"p95_loss"`

	// Changes are terminal price minus last price.
	MaxChange  float64 `json:"max_change"`
	MinChange  float64 `json:"min_change"`
	MeanChange float64 `json:"mean_change"`

	// Columns holding the highest and lowest terminal price.
	MaxPath string `json:"max_path"`
	MinPath string `json:"min_path"`
}

// Analyze builds the loss curve for e against the last observed price.
func Analyze(e *process.Ensemble, lastPrice float64) (Report, error) {
	if e.Empty() {
		return Report{}, fmt.Errorf("%w: empty ensemble", process.ErrInvalidInput)
	}

	terminal := e.Terminal()
	losses := make([]float64, len(terminal))
	changes := make([]float64, len(terminal))
	for i, p := range terminal {
		losses[i] = lastPrice - p
		changes[i] = p - lastPrice
	}
	sort.Float64s(losses)

	curve := make([]float64, CurvePoints)
	for i := range curve {
		curve[i] = Percentile(losses, float64(i+1))
	}

	return Report{
		Model:      e.Model,
		LastPrice:  lastPrice,
		Curve:      curve,
		P95Loss:    curve[p95Rank],
		MaxChange:  floats.Max(changes),
		MinChange:  floats.Min(changes),
		MeanChange: stat.Mean(changes, nil),
		MaxPath:    process.ColumnName(floats.MaxIdx(terminal)),
		MinPath:    process.ColumnName(floats.MinIdx(terminal)),
	}, nil
}

// Percentile returns the q-th percentile (0..100) of an ascending slice,
// interpolating linearly between the two nearest ranks at q/100*(n-1).
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := q / 100 * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Headline is the VaR figure shown above the loss curve.
func (r Report) Headline() string {
	return "P95 losses " + money.Format(r.P95Loss)
}

// Formatted returns the scalar figures as currency strings.
func (r Report) Formatted() map[string]string {
	return map[string]string{
		"Last Price":  money.Format(r.LastPrice),
		"P95 Loss":    money.Format(r.P95Loss),
		"Max Change":  money.Format(r.MaxChange),
		"Min Change":  money.Format(r.MinChange),
		"Mean Change": money.Format(r.MeanChange),
	}
}
