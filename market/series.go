package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput reports a caller precondition violation such as a series
// that is too short to derive a return from.
var ErrInvalidInput = errors.New("invalid input")

// Seconds-per-"year" used to normalise the sampling interval: 252 trading
// days of 360*24 hour units each.
const yearUnits = 360 * 24 * 252

// DT maps the wall-clock sampling interval onto the simulation time step.
// It is the only place the convention is applied.
func DT(interval time.Duration) float64 {
	return interval.Seconds() / yearUnits
}

// ReturnSeries is an ordered close-price series and its log-returns.
// LogReturns[i] is ln(Close[i+1]/Close[i]), so it is one shorter than Close.
// Times are expected to be evenly spaced; that is not checked.
type ReturnSeries struct {
	Times      []time.Time
	Close      []float64
	LogReturns []float64
}

// NewReturnSeries builds a series from aligned close times and prices.
func NewReturnSeries(times []time.Time, closes []float64) (*ReturnSeries, error) {
	if len(times) != len(closes) {
		return nil, fmt.Errorf("%w: %d times for %d prices", ErrInvalidInput, len(times), len(closes))
	}
	if len(closes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 observations, got %d", ErrInvalidInput, len(closes))
	}
	if !times[1].After(times[0]) {
		return nil, fmt.Errorf("%w: close times must be increasing", ErrInvalidInput)
	}

	rs := &ReturnSeries{
		Times:      append([]time.Time(nil), times...),
		Close:      append([]float64(nil), closes...),
		LogReturns: make([]float64, len(closes)-1),
	}
	for i, p := range closes {
		if !(p > 0) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: price %v at %s", ErrInvalidInput, p, times[i].Format(time.RFC3339))
		}
		if i > 0 {
			rs.LogReturns[i-1] = math.Log(p / closes[i-1])
		}
	}
	return rs, nil
}

// FromCandles builds a series from candle close times and close prices.
func FromCandles(candles []Candle) (*ReturnSeries, error) {
	times, closes := Closes(candles)
	return NewReturnSeries(times, closes)
}

func (rs *ReturnSeries) Len() int {
	return len(rs.Close)
}

// Interval is the wall-clock spacing between consecutive closes, taken
// from the first two observations.
func (rs *ReturnSeries) Interval() time.Duration {
	return rs.Times[1].Sub(rs.Times[0])
}

func (rs *ReturnSeries) DT() float64 {
	return DT(rs.Interval())
}

func (rs *ReturnSeries) LastPrice() float64 {
	return rs.Close[len(rs.Close)-1]
}

func (rs *ReturnSeries) LastReturn() float64 {
	return rs.LogReturns[len(rs.LogReturns)-1]
}

func (rs *ReturnSeries) LastTime() time.Time {
	return rs.Times[len(rs.Times)-1]
}

// Scale returns a copy with every price multiplied by k.
func (rs *ReturnSeries) Scale(k float64) (*ReturnSeries, error) {
	closes := make([]float64, len(rs.Close))
	for i, p := range rs.Close {
		closes[i] = p * k
	}
	return NewReturnSeries(rs.Times, closes)
}

// FutureTimes returns n+1 timestamps starting at start and spaced by interval.
func FutureTimes(start time.Time, interval time.Duration, n int) []time.Time {
	out := make([]time.Time, n+1)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * interval)
	}
	return out
}
