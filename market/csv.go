package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ReadCandlesFile opens path and reads it with ReadCandlesCSV.
func ReadCandlesFile(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	candles, err := ReadCandlesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candles, nil
}

// ReadCandlesCSV reads a header-led candle CSV. The closetime and close
// columns are required; opentime, open, high, low and volume are optional.
// Rows with an empty or NaN close are dropped. Output is sorted by close time.
func ReadCandlesCSV(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	closeTimeIdx, ok := cols["closetime"]
	if !ok {
		if closeTimeIdx, ok = cols["close_time"]; !ok {
			return nil, fmt.Errorf("missing closetime column")
		}
	}
	closeIdx, ok := cols["close"]
	if !ok {
		return nil, fmt.Errorf("missing close column")
	}

	var candles []Candle
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		closePrice, ok := field(row, closeIdx)
		if !ok {
			continue
		}

		ts, err := ParseTime(row[closeTimeIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad closetime: %w", line, err)
		}

		c := Candle{CloseTime: ts, Close: closePrice}
		if i, ok := cols["opentime"]; ok && i < len(row) {
			if t, err := ParseTime(row[i]); err == nil {
				c.OpenTime = t
			}
		}
		c.Open, _ = optional(row, cols, "open")
		c.High, _ = optional(row, cols, "high")
		c.Low, _ = optional(row, cols, "low")
		c.Volume, _ = optional(row, cols, "volume")
		candles = append(candles, c)
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].CloseTime.Before(candles[j].CloseTime)
	})
	return candles, nil
}

func field(row []string, idx int) (float64, bool) {
	if idx >= len(row) {
		return 0, false
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func optional(row []string, cols map[string]int, name string) (float64, bool) {
	idx, ok := cols[name]
	if !ok {
		return 0, false
	}
	return field(row, idx)
}

// WriteCandlesCSV writes candles in the layout ReadCandlesCSV expects.
func WriteCandlesCSV(w io.Writer, candles []Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"opentime", "open", "high", "low", "close", "volume", "closetime"}); err != nil {
		return err
	}
	for _, c := range candles {
		opentime := ""
		if !c.OpenTime.IsZero() {
			opentime = c.OpenTime.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		if err := cw.Write([]string{
			opentime,
			f(c.Open),
			f(c.High),
			f(c.Low),
			f(c.Close),
			f(c.Volume),
			c.CloseTime.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
