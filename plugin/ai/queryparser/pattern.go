package queryparser

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/server/queryengine"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// Pre-compiled patterns for intent and range detection.
var (
	findDaysPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(which|what)\s+days?\b`),
		regexp.MustCompile(`(?i)\b(free|open|available)\s+(whole\s+)?days?\b`),
		regexp.MustCompile(`(?i)\bfully\s+(free|open|available)\b`),
		regexp.MustCompile(`(?i)\bentire\s+day\b`),
	}

	suggestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(best|good|ideal|optimal)\s+(time|slot|meeting)`),
		regexp.MustCompile(`(?i)\b(suggest|recommend|rank|propose)\b`),
		regexp.MustCompile(`(?i)\bwhen\s+should\b`),
	}

	nextNDaysPattern = regexp.MustCompile(`(?i)\b(?:next|coming|following)\s+(\d{1,3})\s+days?\b`)
	topNPattern      = regexp.MustCompile(`(?i)\b(?:top|first|best)\s+(\d{1,4})\b`)
)

// PatternParser is the deterministic fallback parser. It recognizes a small
// set of English phrasings and needs no external service.
type PatternParser struct{}

// NewPatternParser creates a new pattern-based parser.
func NewPatternParser() *PatternParser {
	return &PatternParser{}
}

// Name implements Parser.
func (p *PatternParser) Name() string {
	return "pattern"
}

// Parse implements Parser. It always produces a query; unrecognized text
// falls back to a one-week find_slots question.
func (p *PatternParser) Parse(_ context.Context, text string, today time.Time) (*queryengine.Query, error) {
	text = strings.TrimSpace(text)

	q := &queryengine.Query{
		Intent:    p.intent(text),
		DateRange: p.dateRange(text, today),
	}

	if pref, ok := p.preference(text); ok {
		q.TimePreference = pref
	}
	if dur, ok := p.duration(text); ok {
		q.SlotDuration = dur
	}
	if m := topNPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			q.Count = &n
		}
	}
	return q, nil
}

func (p *PatternParser) intent(text string) queryengine.Intent {
	for _, re := range suggestPatterns {
		if re.MatchString(text) {
			return queryengine.IntentSuggestTimes
		}
	}
	for _, re := range findDaysPatterns {
		if re.MatchString(text) {
			return queryengine.IntentFindDays
		}
	}
	return queryengine.IntentFindSlots
}

func (p *PatternParser) preference(text string) (timeslot.Group, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "morning"):
		return timeslot.GroupMorning, true
	case strings.Contains(lower, "afternoon"):
		return timeslot.GroupAfternoon, true
	case strings.Contains(lower, "evening") || strings.Contains(lower, "night"):
		return timeslot.GroupEvening, true
	}
	return "", false
}

func (p *PatternParser) duration(text string) (queryengine.SlotDuration, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "half day") || strings.Contains(lower, "half-day"):
		return queryengine.DurationHalfDay, true
	case strings.Contains(lower, "full day") || strings.Contains(lower, "whole day") || strings.Contains(lower, "all day"):
		return queryengine.DurationFullDay, true
	}
	return "", false
}

// dateRange resolves relative range expressions against today. The default
// window is the coming week.
func (p *PatternParser) dateRange(text string, today time.Time) queryengine.DateRange {
	lower := strings.ToLower(text)
	day := func(t time.Time) string { return t.Format(availability.DateLayout) }
	anchor := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case strings.Contains(lower, "today"):
		return queryengine.DateRange{Start: day(anchor), End: day(anchor)}
	case strings.Contains(lower, "tomorrow"):
		t := anchor.AddDate(0, 0, 1)
		return queryengine.DateRange{Start: day(t), End: day(t)}
	case strings.Contains(lower, "next week"):
		start := anchor.AddDate(0, 0, daysUntilNextMonday(anchor))
		return queryengine.DateRange{Start: day(start), End: day(start.AddDate(0, 0, 6))}
	case strings.Contains(lower, "this week"):
		return queryengine.DateRange{Start: day(anchor), End: day(anchor.AddDate(0, 0, daysUntilSunday(anchor)))}
	case strings.Contains(lower, "this month"):
		end := time.Date(anchor.Year(), anchor.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return queryengine.DateRange{Start: day(anchor), End: day(end)}
	case strings.Contains(lower, "next month"):
		start := time.Date(anchor.Year(), anchor.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return queryengine.DateRange{Start: day(start), End: day(end)}
	}

	if m := nextNDaysPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return queryengine.DateRange{Start: day(anchor), End: day(anchor.AddDate(0, 0, n-1))}
		}
	}

	return queryengine.DateRange{Start: day(anchor), End: day(anchor.AddDate(0, 0, 6))}
}

func daysUntilNextMonday(t time.Time) int {
	offset := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return offset
}

func daysUntilSunday(t time.Time) int {
	return (int(time.Sunday) - int(t.Weekday()) + 7) % 7
}
