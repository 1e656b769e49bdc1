package slots

import (
	"math"
	"time"

	"github.com/angas/spotslots-go/periods"
)

// Slot is a contiguous block of periods covering a requested duration.
// Immutable once returned.
type Slot struct {
	Rank         int            `json:"rank"`
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"` // exclusive, last period start + 15 min
	TotalCost    float64        `json:"totalCost"`
	AveragePrice float64        `json:"averagePrice"`
	Periods      []PricedPeriod `json:"periods"`
}

// FindTopSlots picks up to topN disjoint contiguous blocks of
// durationMinutes, cheapest total all-in cost first. Greedy repeated
// removal: each round takes the cheapest remaining block and marks its
// periods consumed, which may fragment the timeline for later rounds.
// That makes the result a heuristic, not a joint optimum over all blocks.
// Ties go to the earliest start. Returns fewer than topN slots when the
// remaining periods are too few or too fragmented.
func FindTopSlots(series []PricedPeriod, durationMinutes, topN int) []Slot {
	needed := periods.Count(durationMinutes)
	if needed < 1 || len(series) < needed {
		return nil
	}

	consumed := make([]bool, len(series))
	var found []Slot

	for round := 0; round < topN; round++ {
		avail := availableIndices(series, consumed)

		bestFirst := -1
		bestCost := math.Inf(1)
		for i := 0; i+needed <= len(avail); i++ {
			first, last := avail[i], avail[i+needed-1]
			if last-first != needed-1 {
				continue // a consumed period splits this window
			}
			if !contiguous(series, first, last) {
				continue // a gap in the underlying timeline splits it
			}
			cost := 0.0
			for j := first; j <= last; j++ {
				cost += series[j].AllInPrice
			}
			if cost < bestCost {
				bestCost = cost
				bestFirst = first
			}
		}

		if bestFirst < 0 {
			break
		}

		block := make([]PricedPeriod, needed)
		copy(block, series[bestFirst:bestFirst+needed])
		for j := bestFirst; j < bestFirst+needed; j++ {
			consumed[j] = true
		}

		found = append(found, Slot{
			Rank:         round + 1,
			Start:        block[0].Start,
			End:          periods.End(block[needed-1].Start),
			TotalCost:    bestCost,
			AveragePrice: bestCost / float64(needed),
			Periods:      block,
		})
	}

	return found
}

func availableIndices(series []PricedPeriod, consumed []bool) []int {
	avail := make([]int, 0, len(series))
	for i := range series {
		if !consumed[i] {
			avail = append(avail, i)
		}
	}
	return avail
}

// contiguous reports whether series[first..last] is an unbroken run of
// 15-minute periods. Index adjacency is not enough: an eligibility filter
// upstream may have cut hours out between two neighboring elements.
func contiguous(series []PricedPeriod, first, last int) bool {
	want := time.Duration(last-first) * periods.Length
	return series[last].Start.Sub(series[first].Start) == want
}
