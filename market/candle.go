package market

import "time"

// Candle represents OHLC (Open, High, Low, Close) candlestick data
type Candle struct {
	OpenTime  time.Time
	CloseTime time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Closes returns the close times and close prices of a candle slice.
func Closes(candles []Candle) ([]time.Time, []float64) {
	times := make([]time.Time, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		times[i] = c.CloseTime
		closes[i] = c.Close
	}
	return times, closes
}
