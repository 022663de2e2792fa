package market

import (
	"fmt"
	"io"
	"time"
)

// Gap kinds.
const (
	GapWeekend    = "weekend"
	GapSuspicious = "suspicious"
	GapMinor      = "minor"
	GapIrregular  = "irregular"
)

// suspiciousBars is the number of consecutive missing bars worth flagging.
const suspiciousBars = 10

// Gap is a run of missing bars between two observed closes.
type Gap struct {
	After   time.Time `json:"after"`   // last close before the gap
	Missing int       `json:"missing"` // whole bars missing
	Kind    string    `json:"kind"`
}

type GapStats struct {
	Interval       time.Duration `json:"interval"`
	Observed       int           `json:"observed"`
	Missing        int           `json:"missing"`
	GapCount       int           `json:"gap_count"`
	WeekendGaps    int           `json:"weekend_gaps"`
	SuspiciousGaps int           `json:"suspicious_gaps"`
	IrregularGaps  int           `json:"irregular_gaps"`
	LongestGap     int           `json:"longest_gap"`
	LongestGapKind string        `json:"longest_gap_kind"`
	Gaps           []Gap         `json:"gaps,omitempty"`
}

// Gaps scans the close times against the series interval. Steps that are
// a whole multiple of the interval leave bars missing; steps that are
// not are irregular. The simulators assume neither happens.
func (rs *ReturnSeries) Gaps() GapStats {
	step := rs.Interval()
	s := GapStats{Interval: step, Observed: rs.Len()}

	for i := 1; i < len(rs.Times); i++ {
		d := rs.Times[i].Sub(rs.Times[i-1])
		if d == step {
			continue
		}

		g := Gap{After: rs.Times[i-1]}
		if d%step != 0 || d < step {
			g.Kind = GapIrregular
		} else {
			g.Missing = int(d/step) - 1
			g.Kind = classifyGap(rs.Times[i-1], d, g.Missing)
		}
		s.Gaps = append(s.Gaps, g)

		s.GapCount++
		s.Missing += g.Missing
		if g.Missing > s.LongestGap {
			s.LongestGap = g.Missing
			s.LongestGapKind = g.Kind
		}
		switch g.Kind {
		case GapWeekend:
			s.WeekendGaps++
		case GapSuspicious:
			s.SuspiciousGaps++
		case GapIrregular:
			s.IrregularGaps++
		}
	}
	return s
}

func classifyGap(after time.Time, d time.Duration, missing int) string {
	// Weekend-ish if the gap spans a day and starts Fri/Sat/Sun (UTC).
	if d >= 24*time.Hour {
		switch after.UTC().Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			return GapWeekend
		}
		return GapSuspicious
	}
	if missing >= suspiciousBars {
		return GapSuspicious
	}
	return GapMinor
}

// Regular reports whether the series has no gaps at all.
func (s GapStats) Regular() bool {
	return s.GapCount == 0
}

func (s GapStats) Print(w io.Writer) {
	fmt.Fprintln(w, "---- Series Gaps ----")
	fmt.Fprintf(w, "        Interval: %s\n", s.Interval)
	fmt.Fprintf(w, "        Observed: %d\n", s.Observed)
	fmt.Fprintf(w, "    Missing bars: %d\n", s.Missing)
	fmt.Fprintf(w, "      Total gaps: %d\n", s.GapCount)
	fmt.Fprintf(w, "    Weekend gaps: %d\n", s.WeekendGaps)
	fmt.Fprintf(w, " Suspicious gaps: %d\n", s.SuspiciousGaps)
	fmt.Fprintf(w, "  Irregular gaps: %d\n", s.IrregularGaps)
	fmt.Fprintf(w, "Longest gap: %d bars (%s)\n", s.LongestGap, s.LongestGapKind)
	fmt.Fprintln(w, "---------------------")
}
