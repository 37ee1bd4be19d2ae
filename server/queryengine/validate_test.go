package queryengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
)

func intPtr(n int) *int { return &n }

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		query   *Query
		wantErr bool
	}{
		{
			name:  "minimal valid query",
			query: &Query{Intent: IntentFindDays, DateRange: DateRange{Start: "2026-01-01", End: "2026-01-10"}},
		},
		{
			name: "all fields valid",
			query: &Query{
				Intent:         IntentSuggestTimes,
				DateRange:      DateRange{Start: "2026-01-01", End: "2026-01-31"},
				TimePreference: "morning",
				SlotDuration:   DurationHalfDay,
				Count:          intPtr(10),
			},
		},
		{
			name:  "ninety day span is allowed",
			query: &Query{Intent: IntentFindDays, DateRange: DateRange{Start: "2026-01-01", End: "2026-04-01"}},
		},
		{
			name:    "nil query",
			query:   nil,
			wantErr: true,
		},
		{
			name:    "unknown intent",
			query:   &Query{Intent: "find_rooms", DateRange: DateRange{Start: "2026-01-01", End: "2026-01-02"}},
			wantErr: true,
		},
		{
			name:    "inverted range",
			query:   &Query{Intent: IntentFindDays, DateRange: DateRange{Start: "2026-01-10", End: "2026-01-01"}},
			wantErr: true,
		},
		{
			name:    "span over ninety days",
			query:   &Query{Intent: IntentFindDays, DateRange: DateRange{Start: "2026-01-01", End: "2026-04-02"}},
			wantErr: true,
		},
		{
			name:    "malformed start date",
			query:   &Query{Intent: IntentFindDays, DateRange: DateRange{Start: "01/02/2026", End: "2026-01-10"}},
			wantErr: true,
		},
		{
			name:    "malformed end date",
			query:   &Query{Intent: IntentFindDays, DateRange: DateRange{Start: "2026-01-01", End: "soon"}},
			wantErr: true,
		},
		{
			name:    "unknown time preference",
			query:   &Query{Intent: IntentFindSlots, DateRange: DateRange{Start: "2026-01-01", End: "2026-01-02"}, TimePreference: "midnight"},
			wantErr: true,
		},
		{
			name:    "unknown slot duration",
			query:   &Query{Intent: IntentFindSlots, DateRange: DateRange{Start: "2026-01-01", End: "2026-01-02"}, SlotDuration: "2hours"},
			wantErr: true,
		},
		{
			name:    "zero count",
			query:   &Query{Intent: IntentFindSlots, DateRange: DateRange{Start: "2026-01-01", End: "2026-01-02"}, Count: intPtr(0)},
			wantErr: true,
		},
		{
			name:    "negative count",
			query:   &Query{Intent: IntentFindSlots, DateRange: DateRange{Start: "2026-01-01", End: "2026-01-02"}, Count: intPtr(-5)},
			wantErr: true,
		},
		{
			name:    "count over limit",
			query:   &Query{Intent: IntentFindSlots, DateRange: DateRange{Start: "2026-01-01", End: "2026-01-02"}, Count: intPtr(1001)},
			wantErr: true,
		},
		{
			name:  "count at limit",
			query: &Query{Intent: IntentFindSlots, DateRange: DateRange{Start: "2026-01-01", End: "2026-01-02"}, Count: intPtr(1000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query, cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidationFailed))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRangeDates(t *testing.T) {
	q := &Query{DateRange: DateRange{Start: "2026-01-30", End: "2026-02-02"}}
	assert.Equal(t, []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}, rangeDates(q))

	q = &Query{DateRange: DateRange{Start: "2026-05-05", End: "2026-05-05"}}
	assert.Equal(t, []string{"2026-05-05"}, rangeDates(q))
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, ValidateConfig(DefaultConfig()))

	assert.Error(t, ValidateConfig(nil))
	assert.Error(t, ValidateConfig(&Config{MaxRangeDays: 0, MaxCount: 100, DefaultSuggestionCount: 5}))
	assert.Error(t, ValidateConfig(&Config{MaxRangeDays: 90, MaxCount: 0, DefaultSuggestionCount: 5}))
	assert.Error(t, ValidateConfig(&Config{MaxRangeDays: 90, MaxCount: 10, DefaultSuggestionCount: 11}))
}
