package market

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesAt(t *testing.T, times ...time.Time) *ReturnSeries {
	t.Helper()
	closes := make([]float64, len(times))
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rs, err := NewReturnSeries(times, closes)
	require.NoError(t, err)
	return rs
}

func TestGapsRegular(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := seriesAt(t, start, start.Add(time.Hour), start.Add(2*time.Hour))

	s := rs.Gaps()
	assert.True(t, s.Regular())
	assert.Equal(t, time.Hour, s.Interval)
	assert.Equal(t, 3, s.Observed)
}

func TestGapsClassified(t *testing.T) {
	t.Parallel()

	// 2024-01-05 is a Friday.
	fri := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)
	times := []time.Time{
		fri,
		fri.Add(time.Hour),
		fri.Add(3 * time.Hour),                // minor: 1 missing
		fri.Add(51 * time.Hour),               // weekend: 47 missing
		fri.Add(52*time.Hour + 30*time.Minute), // irregular
		fri.Add(64*time.Hour + 30*time.Minute), // suspicious: 11 missing
	}
	s := seriesAt(t, times...).Gaps()

	require.Len(t, s.Gaps, 4)
	assert.Equal(t, GapMinor, s.Gaps[0].Kind)
	assert.Equal(t, 1, s.Gaps[0].Missing)
	assert.Equal(t, GapWeekend, s.Gaps[1].Kind)
	assert.Equal(t, 47, s.Gaps[1].Missing)
	assert.Equal(t, GapIrregular, s.Gaps[2].Kind)
	assert.Equal(t, GapSuspicious, s.Gaps[3].Kind)
	assert.Equal(t, 11, s.Gaps[3].Missing)

	assert.Equal(t, 4, s.GapCount)
	assert.Equal(t, 1, s.WeekendGaps)
	assert.Equal(t, 1, s.SuspiciousGaps)
	assert.Equal(t, 1, s.IrregularGaps)
	assert.Equal(t, 59, s.Missing)
	assert.Equal(t, 47, s.LongestGap)
	assert.Equal(t, GapWeekend, s.LongestGapKind)

	var buf bytes.Buffer
	s.Print(&buf)
	assert.Contains(t, buf.String(), "Longest gap: 47 bars (weekend)")
}

func TestGapsMidweekDayIsSuspicious(t *testing.T) {
	t.Parallel()

	tue := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := seriesAt(t, tue, tue.Add(12*time.Hour), tue.Add(48*time.Hour)).Gaps()
	require.Len(t, s.Gaps, 1)
	assert.Equal(t, GapSuspicious, s.Gaps[0].Kind)
	assert.Equal(t, 2, s.Gaps[0].Missing)
}
