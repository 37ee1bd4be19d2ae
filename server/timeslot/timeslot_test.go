package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary(t *testing.T) {
	require.Len(t, All, 16)
	assert.Equal(t, Slot("06:00"), All[0])
	assert.Equal(t, Slot("21:00"), All[15])

	assert.Len(t, Morning, 6)
	assert.Len(t, Afternoon, 6)
	assert.Len(t, Evening, 4)

	// Groups partition the day.
	seen := make(map[Slot]bool)
	for _, group := range [][]Slot{Morning, Afternoon, Evening} {
		for _, s := range group {
			assert.False(t, seen[s], "slot %s appears in two groups", s)
			seen[s] = true
		}
	}
	assert.Len(t, seen, 16)
}

func TestSlotParsing(t *testing.T) {
	tests := []struct {
		slot      Slot
		wantHour  int
		wantIndex int
	}{
		{"06:00", 6, 0},
		{"12:00", 12, 6},
		{"21:00", 21, 15},
		{"05:00", -1, -1}, // before the bookable day
		{"22:00", -1, -1}, // after the bookable day
		{"6:00", -1, -1},  // not zero-padded
		{"06:30", -1, -1},
		{"noon", -1, -1},
		{"", -1, -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.slot), func(t *testing.T) {
			assert.Equal(t, tt.wantHour, tt.slot.Hour())
			assert.Equal(t, tt.wantIndex, tt.slot.Index())
			assert.Equal(t, tt.wantHour >= 0, tt.slot.Valid())
		})
	}
}

func TestGroupResolution(t *testing.T) {
	assert.Equal(t, Morning, GroupMorning.Slots())
	assert.Equal(t, Afternoon, GroupAfternoon.Slots())
	assert.Equal(t, Evening, GroupEvening.Slots())
	assert.Equal(t, All, GroupAny.Slots())
	assert.Equal(t, All, Group("").Slots())
	assert.Nil(t, Group("midnight").Slots())

	assert.True(t, GroupAny.Valid())
	assert.False(t, Group("midnight").Valid())
}

func TestGroupOf(t *testing.T) {
	g, ok := GroupOf("08:00")
	require.True(t, ok)
	assert.Equal(t, GroupMorning, g)

	g, ok = GroupOf("12:00")
	require.True(t, ok)
	assert.Equal(t, GroupAfternoon, g)

	g, ok = GroupOf("18:00")
	require.True(t, ok)
	assert.Equal(t, GroupEvening, g)

	_, ok = GroupOf("23:00")
	assert.False(t, ok)
}
