// Package dashboard computes the severity aggregates for the current
// record list. Everything is recomputed from the list on every call;
// there are no cached counters to go stale.
package dashboard

import (
	"fmt"
	"math"

	"riskprotocol/internal/protocol"
)

// LevelStat is one row of the severity breakdown. Percentage carries one
// decimal place and is "0.0" when the list is empty.
type LevelStat struct {
	Level      protocol.Level `json:"level"`
	Count      int            `json:"count"`
	Percentage string         `json:"percentage"`
}

// Arc is one segment of the ring chart: its share of the full circle and
// the cumulative offset where it starts, both as fractions in [0,1].
// Only levels with at least one record produce an arc.
type Arc struct {
	Level    protocol.Level `json:"level"`
	Fraction float64        `json:"fraction"`
	Offset   float64        `json:"offset"`
}

type Summary struct {
	Total  int         `json:"total"`
	Levels []LevelStat `json:"levels"`
	Arcs   []Arc       `json:"arcs"`
}

// Summarize walks the list once and reports, for each severity level in
// enumeration order, its count, its share of the total, and the ring
// chart partition. An empty list yields zero percentages and no arcs.
func Summarize(records []protocol.Record) Summary {
	counts := make(map[protocol.Level]int, 3)
	for i := range records {
		counts[records[i].Level]++
	}
	total := len(records)

	levels := make([]LevelStat, 0, 3)
	arcs := make([]Arc, 0, 3)
	offset := 0.0
	for _, level := range protocol.Levels() {
		count := counts[level]
		percentage := "0.0"
		if total > 0 {
			// Floored, not rounded: rounding ties (e.g. 7,7,2 of 16) would
			// push the displayed shares past 100.0 in total.
			percentage = fmt.Sprintf("%.1f", math.Floor(float64(count)/float64(total)*1000)/10)
		}
		levels = append(levels, LevelStat{Level: level, Count: count, Percentage: percentage})
		if total > 0 && count > 0 {
			fraction := float64(count) / float64(total)
			arcs = append(arcs, Arc{Level: level, Fraction: fraction, Offset: offset})
			offset += fraction
		}
	}
	return Summary{Total: total, Levels: levels, Arcs: arcs}
}
