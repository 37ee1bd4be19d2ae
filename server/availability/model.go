// Package availability models per-date blocked/available state for an
// instructor's calendar, including the legacy entry shapes that predate the
// current schema and the migration that upgrades them on read.
package availability

import (
	"bytes"
	"encoding/json"
	"time"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/server/timeslot"
)

// DateLayout is the canonical ISO date format used for entry keys.
const DateLayout = "2006-01-02"

// CurrentVersion is the schema version written by this code. Version 1
// stores predate the 16-slot map and may contain legacy-shaped entries.
const CurrentVersion = 2

// ParseDate parses a canonical ISO yyyy-MM-dd date key in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// EntryKind discriminates the stored shape of a date entry. The kind is
// assigned exactly once, when the entry is decoded, so the rest of the code
// never re-inspects raw JSON.
type EntryKind int

const (
	// KindUnknown marks an entry whose shape matched nothing we recognize.
	// Normalizing such an entry fails loudly instead of dropping data.
	KindUnknown EntryKind = iota
	// KindCanonical is the current shape: a full 16-slot blocked map.
	KindCanonical
	// KindFullDay is the retired single-boolean shape (entire day blocked or open).
	KindFullDay
	// KindHalfDay is the retired AM/PM pair shape.
	KindHalfDay
)

// String returns the string representation of EntryKind.
func (k EntryKind) String() string {
	switch k {
	case KindCanonical:
		return "canonical"
	case KindFullDay:
		return "legacy_full_day"
	case KindHalfDay:
		return "legacy_half_day"
	default:
		return "unknown"
	}
}

// DayAvailability is the canonical per-date record: every canonical slot
// maps to a blocked flag. All 16 keys are always present.
type DayAvailability struct {
	Slots        map[timeslot.Slot]bool `json:"slots"`
	EventName    string                 `json:"eventName,omitempty"`
	FullDayBlock bool                   `json:"fullDayBlock,omitempty"`
}

// NewDayAvailability returns a fully open day with all 16 slots unblocked.
func NewDayAvailability() *DayAvailability {
	slots := make(map[timeslot.Slot]bool, timeslot.Count)
	for _, s := range timeslot.All {
		slots[s] = false
	}
	return &DayAvailability{Slots: slots}
}

// Blocked reports whether the given slot is blocked. Unknown slots are open.
func (d *DayAvailability) Blocked(s timeslot.Slot) bool {
	return d.Slots[s]
}

// FullyAvailable reports whether every slot is unblocked. A date with a
// fully available entry is observationally identical to an absent entry.
func (d *DayAvailability) FullyAvailable() bool {
	for _, blocked := range d.Slots {
		if blocked {
			return false
		}
	}
	return true
}

// FullyBlocked reports whether every slot is blocked.
func (d *DayAvailability) FullyBlocked() bool {
	for _, s := range timeslot.All {
		if !d.Slots[s] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the record.
func (d *DayAvailability) Clone() *DayAvailability {
	slots := make(map[timeslot.Slot]bool, len(d.Slots))
	for s, blocked := range d.Slots {
		slots[s] = blocked
	}
	return &DayAvailability{
		Slots:        slots,
		EventName:    d.EventName,
		FullDayBlock: d.FullDayBlock,
	}
}

// LegacyHalfDay is the retired AM/PM pair shape. MorningBlocked covers the
// six morning slots; EveningBlocked covers the ten afternoon and evening
// slots together. Only ever read, never written.
type LegacyHalfDay struct {
	MorningBlocked bool   `json:"morningBlocked"`
	EveningBlocked bool   `json:"eveningBlocked"`
	EventName      string `json:"eventName,omitempty"`
}

// DayEntry is one stored per-date record. Its shape is fixed once at decode
// time; exactly one of the payload fields is populated according to Kind.
type DayEntry struct {
	Kind EntryKind

	Canonical      *DayAvailability
	FullDayBlocked bool
	HalfDay        *LegacyHalfDay

	// raw preserves the stored bytes for unknown shapes (error reporting)
	// and for writing legacy entries back unmodified.
	raw json.RawMessage
}

// CanonicalEntry wraps a canonical record as a stored entry.
func CanonicalEntry(d *DayAvailability) *DayEntry {
	return &DayEntry{Kind: KindCanonical, Canonical: d}
}

// Raw returns the originally stored bytes, if any.
func (e *DayEntry) Raw() json.RawMessage {
	return e.raw
}

// UnmarshalJSON decodes a stored entry and assigns its kind:
// a bare boolean is the retired full-day shape, an object carrying only
// AM/PM flags is the retired half-day shape, and an object with a "slots"
// map is canonical. Anything else decodes as KindUnknown; the shape error
// surfaces when the entry is normalized, not here, so loading a calendar
// with one bad row still succeeds.
func (e *DayEntry) UnmarshalJSON(data []byte) error {
	e.raw = append(json.RawMessage(nil), data...)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		e.Kind = KindUnknown
		return nil
	}

	switch trimmed[0] {
	case 't', 'f':
		var blocked bool
		if err := json.Unmarshal(trimmed, &blocked); err != nil {
			e.Kind = KindUnknown
			return nil
		}
		e.Kind = KindFullDay
		e.FullDayBlocked = blocked
		return nil
	case '{':
		return e.decodeObject(trimmed)
	default:
		// Strings, numbers, arrays: nothing we have ever written.
		e.Kind = KindUnknown
		return nil
	}
}

func (e *DayEntry) decodeObject(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		e.Kind = KindUnknown
		return nil
	}

	if _, ok := fields["slots"]; ok {
		day, ok := decodeCanonical(data)
		if !ok {
			e.Kind = KindUnknown
			return nil
		}
		e.Kind = KindCanonical
		e.Canonical = day
		return nil
	}

	if isHalfDayShape(fields) {
		var half LegacyHalfDay
		if err := json.Unmarshal(data, &half); err != nil {
			e.Kind = KindUnknown
			return nil
		}
		e.Kind = KindHalfDay
		e.HalfDay = &half
		return nil
	}

	e.Kind = KindUnknown
	return nil
}

// decodeCanonical decodes a canonical record and enforces the full-map
// invariant: unrecognized slot labels reject the record, and slots missing
// from the stored map are filled in as unblocked so every in-memory record
// always carries all 16 keys.
func decodeCanonical(data []byte) (*DayAvailability, bool) {
	var day DayAvailability
	if err := json.Unmarshal(data, &day); err != nil {
		return nil, false
	}
	for s := range day.Slots {
		if !s.Valid() {
			return nil, false
		}
	}
	if day.Slots == nil {
		day.Slots = make(map[timeslot.Slot]bool, timeslot.Count)
	}
	for _, s := range timeslot.All {
		if _, ok := day.Slots[s]; !ok {
			day.Slots[s] = false
		}
	}
	return &day, true
}

func isHalfDayShape(fields map[string]json.RawMessage) bool {
	sawFlag := false
	for key := range fields {
		switch key {
		case "morningBlocked", "eveningBlocked":
			sawFlag = true
		case "eventName":
			// metadata, allowed on legacy entries
		default:
			return false
		}
	}
	return sawFlag
}

// MarshalJSON writes canonical entries in the canonical shape and legacy
// entries byte-for-byte as they were stored. This core never silently
// rewrites a legacy entry on save; persisting the migrated form is an
// explicit caller decision.
func (e *DayEntry) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindCanonical:
		return json.Marshal(e.Canonical)
	case KindFullDay:
		if e.raw != nil {
			return e.raw, nil
		}
		return json.Marshal(e.FullDayBlocked)
	case KindHalfDay:
		if e.raw != nil {
			return e.raw, nil
		}
		return json.Marshal(e.HalfDay)
	default:
		if e.raw != nil {
			return e.raw, nil
		}
		return nil, apperrors.MigrationFailed("cannot marshal entry of unknown shape")
	}
}

// OwnerProfile carries optional metadata about the calendar owner.
type OwnerProfile struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Store is the versioned container for one owner's calendar. Entries map
// canonical ISO dates to per-date records; a date absent from the map is
// fully available.
type Store struct {
	Version      int                  `json:"version"`
	Entries      map[string]*DayEntry `json:"entries"`
	OwnerProfile *OwnerProfile        `json:"ownerProfile,omitempty"`
}

// NewStore returns an empty calendar at the current schema version.
func NewStore() *Store {
	return &Store{
		Version: CurrentVersion,
		Entries: make(map[string]*DayEntry),
	}
}

// Entry returns the stored record for the given ISO date, or nil when the
// date is absent (fully available).
func (s *Store) Entry(date string) *DayEntry {
	if s == nil || s.Entries == nil {
		return nil
	}
	return s.Entries[date]
}

// knownVersions are the schema generations this code can read.
var knownVersions = map[int]bool{1: true, CurrentVersion: true}

// Validate checks that the container is well formed: a known version and
// parseable ISO date keys.
func (s *Store) Validate() error {
	if !knownVersions[s.Version] {
		return apperrors.UnknownVersion(s.Version)
	}
	for date := range s.Entries {
		if _, err := ParseDate(date); err != nil {
			return apperrors.InvalidArgument("malformed date key: " + date)
		}
	}
	return nil
}
