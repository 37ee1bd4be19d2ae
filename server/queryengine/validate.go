package queryengine

import (
	"time"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/server/availability"
)

// Validate checks a query against the engine's limits. It rejects unknown
// enum values, malformed or inverted date ranges, ranges wider than
// cfg.MaxRangeDays inclusive, and out-of-bounds counts. Validation never
// touches the store; it runs to completion before any iteration begins.
func Validate(q *Query, cfg *Config) error {
	if q == nil {
		return apperrors.ValidationFailed("query is nil")
	}
	if !q.Intent.Valid() {
		return apperrors.ValidationFailedf("unknown intent: %q", q.Intent)
	}
	if q.TimePreference != "" && !q.TimePreference.Valid() {
		return apperrors.ValidationFailedf("unknown time preference: %q", q.TimePreference)
	}
	if q.SlotDuration != "" && !q.SlotDuration.Valid() {
		return apperrors.ValidationFailedf("unknown slot duration: %q", q.SlotDuration)
	}

	start, err := availability.ParseDate(q.DateRange.Start)
	if err != nil {
		return apperrors.ValidationFailedf("malformed start date: %q", q.DateRange.Start)
	}
	end, err := availability.ParseDate(q.DateRange.End)
	if err != nil {
		return apperrors.ValidationFailedf("malformed end date: %q", q.DateRange.End)
	}
	if start.After(end) {
		return apperrors.ValidationFailedf("start date %s is after end date %s", q.DateRange.Start, q.DateRange.End)
	}
	if spanDays(start, end) > cfg.MaxRangeDays {
		return apperrors.ValidationFailedf("date range exceeds %d days", cfg.MaxRangeDays)
	}

	if q.Count != nil {
		if *q.Count <= 0 {
			return apperrors.ValidationFailedf("count must be positive, got %d", *q.Count)
		}
		if *q.Count > cfg.MaxCount {
			return apperrors.ValidationFailedf("count exceeds maximum of %d", cfg.MaxCount)
		}
	}
	return nil
}

// spanDays returns the whole-day distance between two UTC midnights.
func spanDays(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}

// rangeDates returns every date key in [start, end] inclusive. Each step
// constructs a fresh time value from the start anchor and an index counter;
// the value used in the loop's own bound check is never mutated. This
// encodes a previously observed off-by-one defect class as a hard rule.
func rangeDates(q *Query) []string {
	start, _ := availability.ParseDate(q.DateRange.Start)
	end, _ := availability.ParseDate(q.DateRange.End)

	days := spanDays(start, end) + 1
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		dates = append(dates, d.Format(availability.DateLayout))
	}
	return dates
}
