// Package suggestion ranks candidate meeting slots by how much contiguous
// open time surrounds them on the same date.
package suggestion

import (
	"fmt"
	"sort"

	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// scoreHorizonHours is the size of the open stretch that saturates the
// score at 1.0.
const scoreHorizonHours = 10

// Suggestion represents one ranked meeting-time candidate.
type Suggestion struct {
	Date   string        `json:"date"`
	Slot   timeslot.Slot `json:"slot"`
	Score  float64       `json:"score"`
	Reason string        `json:"reason"`
}

// Score computes the contiguity score for a slot on a normalized day. It
// counts the open hours immediately before and after the slot, stopping at
// the first blocked or out-of-range hour, and returns
// min((before+after+1)/10, 1.0) together with the total stretch length.
func Score(day *availability.DayAvailability, slot timeslot.Slot) (float64, int) {
	idx := slot.Index()
	if idx < 0 {
		return 0, 0
	}

	before := 0
	for i := idx - 1; i >= 0; i-- {
		if day.Blocked(timeslot.ByIndex(i)) {
			break
		}
		before++
	}

	after := 0
	for i := idx + 1; i < timeslot.Count; i++ {
		if day.Blocked(timeslot.ByIndex(i)) {
			break
		}
		after++
	}

	contiguous := before + after + 1
	score := float64(contiguous) / scoreHorizonHours
	if score > 1.0 {
		score = 1.0
	}
	return score, contiguous
}

// Build scores a candidate slot and attaches a human-readable reason.
func Build(date string, day *availability.DayAvailability, slot timeslot.Slot) *Suggestion {
	score, contiguous := Score(day, slot)
	return &Suggestion{
		Date:   date,
		Slot:   slot,
		Score:  score,
		Reason: fmt.Sprintf("%d contiguous open hour(s) around this slot", contiguous),
	}
}

// Rank sorts suggestions in place: descending by score, with ties broken
// ascending by (date, slot index). The tie-break keeps results
// deterministic across runs.
func Rank(items []*Suggestion) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Slot.Index() < items[j].Slot.Index()
	})
}
