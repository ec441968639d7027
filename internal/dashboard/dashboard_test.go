package dashboard

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"riskprotocol/internal/protocol"
)

func recordsWithLevels(levels ...protocol.Level) []protocol.Record {
	records := make([]protocol.Record, 0, len(levels))
	for i, level := range levels {
		records = append(records, protocol.Record{
			ID:    "rec-" + strconv.Itoa(i),
			Draft: protocol.Draft{Level: level},
		})
	}
	return records
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, 0, s.Total)
	require.Len(t, s.Levels, 3)
	for _, stat := range s.Levels {
		require.Equal(t, 0, stat.Count)
		require.Equal(t, "0.0", stat.Percentage)
	}
	require.Empty(t, s.Arcs)
}

func TestSummarize_CountsAndPercentages(t *testing.T) {
	s := Summarize(recordsWithLevels(
		protocol.LevelHigh,
		protocol.LevelHigh,
		protocol.LevelLow,
	))
	require.Equal(t, 3, s.Total)

	require.Equal(t, protocol.LevelLow, s.Levels[0].Level)
	require.Equal(t, 1, s.Levels[0].Count)
	require.Equal(t, "33.3", s.Levels[0].Percentage)

	require.Equal(t, protocol.LevelMedium, s.Levels[1].Level)
	require.Equal(t, 0, s.Levels[1].Count)
	require.Equal(t, "0.0", s.Levels[1].Percentage)

	require.Equal(t, protocol.LevelHigh, s.Levels[2].Level)
	require.Equal(t, 2, s.Levels[2].Count)
	require.Equal(t, "66.6", s.Levels[2].Percentage)
}

func TestSummarize_PercentagesNeverExceedTotal(t *testing.T) {
	distributions := [][]protocol.Level{
		{
			protocol.LevelLow, protocol.LevelLow, protocol.LevelLow,
			protocol.LevelMedium, protocol.LevelMedium,
			protocol.LevelHigh,
		},
		// 7,7,2 of 16: round-to-nearest would display 43.8+43.8+12.5 = 100.1.
		append(append(
			recordLevels(protocol.LevelLow, 7),
			recordLevels(protocol.LevelMedium, 7)...),
			recordLevels(protocol.LevelHigh, 2)...),
		recordLevels(protocol.LevelMedium, 3),
		recordLevels(protocol.LevelHigh, 7),
	}
	for _, levels := range distributions {
		s := Summarize(recordsWithLevels(levels...))
		sum := 0.0
		for _, stat := range s.Levels {
			v, err := strconv.ParseFloat(stat.Percentage, 64)
			require.NoError(t, err)
			sum += v
		}
		require.LessOrEqualf(t, sum, 100.0, "distribution of %d records", s.Total)
	}
}

func TestSummarize_TieRoundingStaysUnder100(t *testing.T) {
	s := Summarize(recordsWithLevels(append(append(
		recordLevels(protocol.LevelLow, 7),
		recordLevels(protocol.LevelMedium, 7)...),
		recordLevels(protocol.LevelHigh, 2)...)...))
	require.Equal(t, "43.7", s.Levels[0].Percentage)
	require.Equal(t, "43.7", s.Levels[1].Percentage)
	require.Equal(t, "12.5", s.Levels[2].Percentage)
}

func recordLevels(level protocol.Level, n int) []protocol.Level {
	out := make([]protocol.Level, n)
	for i := range out {
		out[i] = level
	}
	return out
}

func TestSummarize_ArcsPartitionTheCircle(t *testing.T) {
	s := Summarize(recordsWithLevels(
		protocol.LevelHigh, protocol.LevelHigh, protocol.LevelHigh,
		protocol.LevelLow,
	))
	// Only levels with records, in enumeration order.
	require.Len(t, s.Arcs, 2)
	require.Equal(t, protocol.LevelLow, s.Arcs[0].Level)
	require.Equal(t, protocol.LevelHigh, s.Arcs[1].Level)

	require.InDelta(t, 0.25, s.Arcs[0].Fraction, 1e-9)
	require.InDelta(t, 0.0, s.Arcs[0].Offset, 1e-9)
	require.InDelta(t, 0.75, s.Arcs[1].Fraction, 1e-9)
	require.InDelta(t, 0.25, s.Arcs[1].Offset, 1e-9)

	total := 0.0
	for _, arc := range s.Arcs {
		total += arc.Fraction
	}
	require.InDelta(t, 1.0, total, 1e-9)
}
