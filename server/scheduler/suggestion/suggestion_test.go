package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// dayWithOpen returns a day where exactly the given slots are open.
func dayWithOpen(open ...timeslot.Slot) *availability.DayAvailability {
	day := availability.NewDayAvailability()
	for _, s := range timeslot.All {
		day.Slots[s] = true
	}
	for _, s := range open {
		day.Slots[s] = false
	}
	return day
}

func TestScoreIsolatedSlot(t *testing.T) {
	day := dayWithOpen("08:00")
	score, contiguous := Score(day, "08:00")
	assert.Equal(t, 1, contiguous)
	assert.InDelta(t, 0.1, score, 1e-9)
}

func TestScoreCountsNeighborsUntilBlockedOrEdge(t *testing.T) {
	// 06:00 through 11:00 open, 12:00 blocked: every slot in the morning
	// stretch sees the same six contiguous hours.
	day := dayWithOpen(timeslot.Morning...)

	score, contiguous := Score(day, "11:00")
	assert.Equal(t, 6, contiguous)
	assert.InDelta(t, 0.6, score, 1e-9)

	score, contiguous = Score(day, "06:00")
	assert.Equal(t, 6, contiguous)
	assert.InDelta(t, 0.6, score, 1e-9)
}

func TestScoreSaturatesAtOne(t *testing.T) {
	day := availability.NewDayAvailability() // all 16 open
	score, contiguous := Score(day, "12:00")
	assert.Equal(t, 16, contiguous)
	assert.Equal(t, 1.0, score)
}

func TestScoreStopsAtEdges(t *testing.T) {
	day := availability.NewDayAvailability()
	score, contiguous := Score(day, "06:00")
	assert.Equal(t, 16, contiguous) // 0 before + 15 after + 1
	assert.Equal(t, 1.0, score)

	day = dayWithOpen("21:00")
	score, contiguous = Score(day, "21:00")
	assert.Equal(t, 1, contiguous)
	assert.InDelta(t, 0.1, score, 1e-9)
}

func TestScoreBounds(t *testing.T) {
	days := []*availability.DayAvailability{
		availability.NewDayAvailability(),
		dayWithOpen("08:00"),
		dayWithOpen(timeslot.Morning...),
		dayWithOpen(timeslot.Evening...),
	}
	for _, day := range days {
		for _, slot := range timeslot.All {
			score, _ := Score(day, slot)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestBuildReasonStatesContiguousHours(t *testing.T) {
	s := Build("2026-03-10", dayWithOpen(timeslot.Morning...), "09:00")
	assert.Equal(t, "2026-03-10", s.Date)
	assert.Equal(t, timeslot.Slot("09:00"), s.Slot)
	assert.Contains(t, s.Reason, "6 contiguous open hour")
}

func TestRankOrdersByScoreThenDateThenSlot(t *testing.T) {
	items := []*Suggestion{
		{Date: "2026-03-12", Slot: "09:00", Score: 0.3},
		{Date: "2026-03-10", Slot: "14:00", Score: 0.6},
		{Date: "2026-03-11", Slot: "08:00", Score: 0.6},
		{Date: "2026-03-10", Slot: "07:00", Score: 0.6},
		{Date: "2026-03-10", Slot: "06:00", Score: 1.0},
	}
	Rank(items)

	got := make([][2]string, 0, len(items))
	for _, s := range items {
		got = append(got, [2]string{s.Date, string(s.Slot)})
	}
	want := [][2]string{
		{"2026-03-10", "06:00"},
		{"2026-03-10", "07:00"},
		{"2026-03-10", "14:00"},
		{"2026-03-11", "08:00"},
		{"2026-03-12", "09:00"},
	}
	require.Equal(t, want, got)

	// Non-increasing scores.
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Score, items[i].Score)
	}
}
