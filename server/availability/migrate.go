package availability

import (
	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// Normalize upgrades a stored entry to the canonical shape. It is a pure
// function and idempotent: canonical entries are returned unchanged, so
// Normalize(Normalize(x)) always equals Normalize(x).
//
// A nil entry means the date is absent from storage, which is equivalent to
// a fully open day. An entry of unknown shape fails loudly: silently
// dropping stored data is treated as a defect, not a recovery strategy.
func Normalize(e *DayEntry) (*DayAvailability, error) {
	if e == nil {
		return NewDayAvailability(), nil
	}

	switch e.Kind {
	case KindCanonical:
		return e.Canonical, nil

	case KindFullDay:
		day := NewDayAvailability()
		if e.FullDayBlocked {
			for _, s := range timeslot.All {
				day.Slots[s] = true
			}
			day.FullDayBlock = true
		}
		return day, nil

	case KindHalfDay:
		// The AM flag covers the six morning slots. The PM flag covers the
		// ten afternoon and evening slots together. The asymmetry is part of
		// the stored-data contract and must not be "fixed".
		day := NewDayAvailability()
		for _, s := range timeslot.Morning {
			day.Slots[s] = e.HalfDay.MorningBlocked
		}
		for _, s := range timeslot.Afternoon {
			day.Slots[s] = e.HalfDay.EveningBlocked
		}
		for _, s := range timeslot.Evening {
			day.Slots[s] = e.HalfDay.EveningBlocked
		}
		day.EventName = e.HalfDay.EventName
		day.FullDayBlock = e.HalfDay.MorningBlocked && e.HalfDay.EveningBlocked
		return day, nil

	default:
		err := apperrors.MigrationFailed("stored entry matches no known shape")
		if e.raw != nil {
			err = err.WithContext("raw", string(e.raw))
		}
		return nil, err
	}
}

// LegacyView is the AM/PM summary derived from a canonical record, for
// consumers still expecting the retired half-day shape.
type LegacyView struct {
	AM bool `json:"morningBlocked"`
	PM bool `json:"eveningBlocked"`
}

// DeriveLegacyView folds a canonical record back to the retired AM/PM pair:
// AM is the OR over the morning slots, PM the OR over the afternoon and
// evening slots. The derivation is lossy on purpose; a single blocked
// morning hour derives AM=true exactly like six blocked morning hours do.
func DeriveLegacyView(d *DayAvailability) LegacyView {
	var view LegacyView
	for _, s := range timeslot.Morning {
		if d.Slots[s] {
			view.AM = true
			break
		}
	}
	for _, s := range timeslot.Afternoon {
		if d.Slots[s] {
			view.PM = true
			break
		}
	}
	if !view.PM {
		for _, s := range timeslot.Evening {
			if d.Slots[s] {
				view.PM = true
				break
			}
		}
	}
	return view
}
