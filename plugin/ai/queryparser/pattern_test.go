package queryparser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorcal/tutorcal/server/queryengine"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// 2026-01-07 is a Wednesday.
var testToday = time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)

func TestPatternParserIntent(t *testing.T) {
	tests := []struct {
		text string
		want queryengine.Intent
	}{
		{"Which days are fully free?", queryengine.IntentFindDays},
		{"show me open days in the next 30 days", queryengine.IntentFindDays},
		{"suggest a good meeting time", queryengine.IntentSuggestTimes},
		{"recommend the best slot tomorrow", queryengine.IntentSuggestTimes},
		{"when should we meet?", queryengine.IntentSuggestTimes},
		{"free morning slots this week", queryengine.IntentFindSlots},
		{"anything open tomorrow afternoon", queryengine.IntentFindSlots},
	}

	parser := NewPatternParser()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			q, err := parser.Parse(context.Background(), tt.text, testToday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Intent)
		})
	}
}

func TestPatternParserDateRanges(t *testing.T) {
	tests := []struct {
		text      string
		wantStart string
		wantEnd   string
	}{
		{"free slots today", "2026-01-07", "2026-01-07"},
		{"free slots tomorrow", "2026-01-08", "2026-01-08"},
		{"which days are open this week", "2026-01-07", "2026-01-11"},
		{"which days are open next week", "2026-01-12", "2026-01-18"},
		{"openings this month", "2026-01-07", "2026-01-31"},
		{"openings next month", "2026-02-01", "2026-02-28"},
		{"free slots in the next 10 days", "2026-01-07", "2026-01-16"},
		{"any openings", "2026-01-07", "2026-01-13"}, // default: coming week
	}

	parser := NewPatternParser()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			q, err := parser.Parse(context.Background(), tt.text, testToday)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, q.DateRange.Start)
			assert.Equal(t, tt.wantEnd, q.DateRange.End)
		})
	}
}

func TestPatternParserFilters(t *testing.T) {
	parser := NewPatternParser()

	q, err := parser.Parse(context.Background(), "suggest the top 3 morning times next week", testToday)
	require.NoError(t, err)
	assert.Equal(t, queryengine.IntentSuggestTimes, q.Intent)
	assert.Equal(t, timeslot.GroupMorning, q.TimePreference)
	require.NotNil(t, q.Count)
	assert.Equal(t, 3, *q.Count)

	q, err = parser.Parse(context.Background(), "is there a full day open next week", testToday)
	require.NoError(t, err)
	assert.Equal(t, queryengine.DurationFullDay, q.SlotDuration)

	q, err = parser.Parse(context.Background(), "half-day openings in the evening", testToday)
	require.NoError(t, err)
	assert.Equal(t, queryengine.DurationHalfDay, q.SlotDuration)
	assert.Equal(t, timeslot.GroupEvening, q.TimePreference)
}

func TestPatternParserOutputPassesValidation(t *testing.T) {
	parser := NewPatternParser()
	cfg := queryengine.DefaultConfig()

	texts := []string{
		"Which days are fully free next week?",
		"suggest the best afternoon times in the next 14 days",
		"free slots this month",
		"completely unrelated text with no scheduling words",
	}
	for _, text := range texts {
		q, err := parser.Parse(context.Background(), text, testToday)
		require.NoError(t, err, "text: %s", text)
		assert.NoError(t, queryengine.Validate(q, cfg), "text: %s", text)
	}
}
