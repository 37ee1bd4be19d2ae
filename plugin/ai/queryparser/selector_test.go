package queryparser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/server/queryengine"
)

// stubParser returns a fixed query or error.
type stubParser struct {
	name  string
	query *queryengine.Query
	err   error
	calls int
}

func (s *stubParser) Name() string { return s.name }

func (s *stubParser) Parse(_ context.Context, _ string, _ time.Time) (*queryengine.Query, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.query, nil
}

func TestSelectorUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubParser{name: "llm", query: &queryengine.Query{Intent: queryengine.IntentFindDays}}
	fallback := &stubParser{name: "pattern", query: &queryengine.Query{Intent: queryengine.IntentFindSlots}}

	q, err := NewSelector(primary, fallback, nil).Parse(context.Background(), "free days?", testToday)
	require.NoError(t, err)
	assert.Equal(t, queryengine.IntentFindDays, q.Intent)
	assert.Zero(t, fallback.calls)
}

func TestSelectorFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &stubParser{name: "llm", err: apperrors.ParserUnavailable("endpoint down", nil)}
	fallback := &stubParser{name: "pattern", query: &queryengine.Query{Intent: queryengine.IntentFindSlots}}

	q, err := NewSelector(primary, fallback, nil).Parse(context.Background(), "free days?", testToday)
	require.NoError(t, err)
	assert.Equal(t, queryengine.IntentFindSlots, q.Intent)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestSelectorWithoutPrimary(t *testing.T) {
	fallback := &stubParser{name: "pattern", query: &queryengine.Query{Intent: queryengine.IntentFindSlots}}

	selector := NewSelector(nil, fallback, nil)
	assert.Equal(t, "pattern", selector.Name())

	q, err := selector.Parse(context.Background(), "free days?", testToday)
	require.NoError(t, err)
	assert.Equal(t, queryengine.IntentFindSlots, q.Intent)
}

func TestSelectorStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &stubParser{name: "llm", err: context.Canceled}
	fallback := &stubParser{name: "pattern", query: &queryengine.Query{}}

	_, err := NewSelector(primary, fallback, nil).Parse(ctx, "free days?", testToday)
	require.Error(t, err)
	assert.Zero(t, fallback.calls)
}

func TestDecodeQueryJSON(t *testing.T) {
	count := 3
	want := &queryengine.Query{
		Intent:         queryengine.IntentSuggestTimes,
		DateRange:      queryengine.DateRange{Start: "2026-01-12", End: "2026-01-18"},
		TimePreference: "morning",
		Count:          &count,
	}

	contents := []string{
		`{"intent":"suggest_times","dateRange":{"start":"2026-01-12","end":"2026-01-18"},"timePreference":"morning","count":3}`,
		"```json\n{\"intent\":\"suggest_times\",\"dateRange\":{\"start\":\"2026-01-12\",\"end\":\"2026-01-18\"},\"timePreference\":\"morning\",\"count\":3}\n```",
	}
	for _, content := range contents {
		q, err := decodeQueryJSON(content)
		require.NoError(t, err)
		assert.Equal(t, want, q)
	}

	_, err := decodeQueryJSON("sorry, I cannot help with that")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeParserUnavailable))
}
