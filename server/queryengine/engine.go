package queryengine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/server/scheduler/suggestion"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// Engine executes availability queries. It holds no mutable state beyond
// its configuration, so a single engine may serve any number of concurrent
// Execute calls as long as each call gets a store snapshot that does not
// mutate mid-query.
type Engine struct {
	config *Config
}

// NewEngine creates an engine with the default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates an engine with a custom configuration.
func NewEngineWithConfig(config *Config) *Engine {
	if err := ValidateConfig(config); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}
	return &Engine{config: config}
}

// Execute validates the query, then dispatches on its intent. Legacy
// entries are normalized on the fly; an entry of unknown shape aborts the
// whole query rather than producing a partial answer, because a partially
// computed result could misinform a scheduling decision.
func (e *Engine) Execute(ctx context.Context, q *Query, store *availability.Store) (*Result, error) {
	if err := Validate(q, e.config); err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.Validate(); err != nil {
			return nil, err
		}
	}

	lookup := newDayLookup(store)
	switch q.Intent {
	case IntentFindDays:
		return e.findDays(q, lookup)
	case IntentFindSlots:
		return e.findSlots(q, lookup)
	case IntentSuggestTimes:
		return e.suggestTimes(q, lookup)
	default:
		// Unreachable after validation.
		return nil, fmt.Errorf("unhandled intent: %s", q.Intent)
	}
}

// ExecuteBatch runs several independent queries against the same immutable
// snapshot concurrently. The first failing query cancels the rest; on
// success results are returned in query order.
func (e *Engine) ExecuteBatch(ctx context.Context, queries []*Query, store *availability.Store) ([]*Result, error) {
	results := make([]*Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := e.Execute(gctx, q, store)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) findDays(q *Query, lookup *dayLookup) (*Result, error) {
	result := &Result{Intent: q.Intent, Query: q}

	for _, date := range rangeDates(q) {
		day, err := lookup.day(date)
		if err != nil {
			return nil, err
		}
		if day.FullyAvailable() {
			result.Days = append(result.Days, date)
		}
	}

	if len(result.Days) == 0 {
		result.Guidance = []string{
			"No fully open days in this range.",
			"Try find_slots with a morning, afternoon, or evening preference to locate partial openings.",
		}
	}
	return result, nil
}

func (e *Engine) findSlots(q *Query, lookup *dayLookup) (*Result, error) {
	result := &Result{Intent: q.Intent, Query: q}

	limit := 0
	if q.Count != nil {
		limit = *q.Count
	}

	candidates, err := e.collectCandidates(q, lookup)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if limit > 0 && len(result.Slots) >= limit {
			break
		}
		result.Slots = append(result.Slots, SlotRef{Date: c.date, Slot: c.slot})
	}

	if len(result.Slots) == 0 {
		result.Guidance = emptySlotGuidance(q.TimePreference)
	}
	return result, nil
}

func (e *Engine) suggestTimes(q *Query, lookup *dayLookup) (*Result, error) {
	result := &Result{Intent: q.Intent, Query: q}

	candidates, err := e.collectCandidates(q, lookup)
	if err != nil {
		return nil, err
	}

	suggestions := make([]*suggestion.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, suggestion.Build(c.date, c.day, c.slot))
	}
	suggestion.Rank(suggestions)

	limit := e.config.DefaultSuggestionCount
	if q.Count != nil {
		limit = *q.Count
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	result.Suggestions = suggestions

	if len(result.Suggestions) == 0 {
		result.Guidance = emptySlotGuidance(q.TimePreference)
	}
	return result, nil
}

// candidate is one open slot surviving the query's filters, together with
// the normalized day it was found on.
type candidate struct {
	date string
	slot timeslot.Slot
	day  *availability.DayAvailability
}

// collectCandidates walks the range in (date, slot) order and keeps every
// slot that is open and satisfies the requested duration granularity.
func (e *Engine) collectCandidates(q *Query, lookup *dayLookup) ([]candidate, error) {
	slots := q.TimePreference.Slots()

	var candidates []candidate
	for _, date := range rangeDates(q) {
		day, err := lookup.day(date)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			if day.Blocked(slot) {
				continue
			}
			if !satisfiesDuration(q.SlotDuration, day, slot) {
				continue
			}
			candidates = append(candidates, candidate{date: date, slot: slot, day: day})
		}
	}
	return candidates, nil
}

// satisfiesDuration applies the slot-duration filter: half-day openings
// require the slot's whole half of the day (morning, or afternoon plus
// evening) to be open, full-day openings require a fully open date.
func satisfiesDuration(d SlotDuration, day *availability.DayAvailability, slot timeslot.Slot) bool {
	switch d {
	case DurationFullDay:
		return day.FullyAvailable()
	case DurationHalfDay:
		group, _ := timeslot.GroupOf(slot)
		if group == timeslot.GroupMorning {
			return allOpen(day, timeslot.Morning)
		}
		return allOpen(day, timeslot.Afternoon) && allOpen(day, timeslot.Evening)
	default:
		return true
	}
}

func allOpen(day *availability.DayAvailability, slots []timeslot.Slot) bool {
	for _, s := range slots {
		if day.Blocked(s) {
			return false
		}
	}
	return true
}

// emptySlotGuidance proposes the time-of-day groupings not yet tried, or a
// wider search when the query already covered the whole day.
func emptySlotGuidance(pref timeslot.Group) []string {
	if pref == "" || pref == timeslot.GroupAny {
		return []string{
			"No open slots in this range.",
			"Try a wider date range, or find_days to look for fully open days further out.",
		}
	}
	guidance := []string{fmt.Sprintf("No open %s slots in this range.", pref)}
	for _, g := range timeslot.Groups {
		if g != pref {
			guidance = append(guidance, fmt.Sprintf("Try the %s grouping instead.", g))
		}
	}
	return guidance
}
