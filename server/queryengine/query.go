// Package queryengine validates and executes structured availability
// queries against an immutable calendar snapshot.
package queryengine

import (
	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/server/scheduler/suggestion"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// Intent is the kind of question a query asks.
type Intent string

const (
	// IntentFindDays asks for fully open days in the range.
	IntentFindDays Intent = "find_days"
	// IntentFindSlots asks for individual open slots in the range.
	IntentFindSlots Intent = "find_slots"
	// IntentSuggestTimes asks for ranked meeting-time suggestions.
	IntentSuggestTimes Intent = "suggest_times"
)

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	switch i {
	case IntentFindDays, IntentFindSlots, IntentSuggestTimes:
		return true
	}
	return false
}

// SlotDuration is the granularity of the opening a query looks for.
type SlotDuration string

const (
	DurationHour    SlotDuration = "1hour"
	DurationHalfDay SlotDuration = "half-day"
	DurationFullDay SlotDuration = "full-day"
)

// Valid reports whether d is a known duration. The empty value is treated
// as DurationHour by the engine.
func (d SlotDuration) Valid() bool {
	switch d {
	case DurationHour, DurationHalfDay, DurationFullDay:
		return true
	}
	return false
}

// DateRange is an inclusive span of canonical ISO dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Query is a structured availability question. Queries typically originate
// from a natural-language parser whose output is not trusted; every query
// passes validation before execution regardless of its source.
type Query struct {
	Intent         Intent         `json:"intent"`
	DateRange      DateRange      `json:"dateRange"`
	TimePreference timeslot.Group `json:"timePreference,omitempty"`
	SlotDuration   SlotDuration   `json:"slotDuration,omitempty"`
	// Count caps the number of returned items. Nil means "engine default".
	Count *int `json:"count,omitempty"`
}

// SlotRef identifies one slot on one date.
type SlotRef struct {
	Date string        `json:"date"`
	Slot timeslot.Slot `json:"slot"`
}

// Result is the outcome of one executed query. Exactly one of the item
// fields is populated, matching the intent, so consumers always receive a
// homogeneous item sequence. Guidance carries advice when the matching item
// field is empty; an empty result is a normal outcome, not an error.
type Result struct {
	Intent      Intent                   `json:"intent"`
	Days        []string                 `json:"days,omitempty"`
	Slots       []SlotRef                `json:"slots,omitempty"`
	Suggestions []*suggestion.Suggestion `json:"suggestions,omitempty"`
	Guidance    []string                 `json:"guidance,omitempty"`
	Query       *Query                   `json:"query"`
}

// Empty reports whether the result carries no items.
func (r *Result) Empty() bool {
	return len(r.Days) == 0 && len(r.Slots) == 0 && len(r.Suggestions) == 0
}

// dayLookup normalizes entries lazily and caches them per execution, so a
// date touched by several slots migrates exactly once.
type dayLookup struct {
	store *availability.Store
	cache map[string]*availability.DayAvailability
}

func newDayLookup(store *availability.Store) *dayLookup {
	return &dayLookup{
		store: store,
		cache: make(map[string]*availability.DayAvailability),
	}
}

func (l *dayLookup) day(date string) (*availability.DayAvailability, error) {
	if day, ok := l.cache[date]; ok {
		return day, nil
	}
	day, err := availability.Normalize(l.store.Entry(date))
	if err != nil {
		return nil, err
	}
	l.cache[date] = day
	return day, nil
}
