// Package timeslot defines the fixed vocabulary of bookable one-hour slots
// and the named time-of-day groupings built from them.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is the canonical label of a one-hour slot, e.g. "06:00" for the
// window starting at 06:00.
type Slot string

// Hour boundaries of the bookable day. The last slot starts at 21:00 and
// ends at 22:00.
const (
	FirstHour = 6
	LastHour  = 21
	Count     = LastHour - FirstHour + 1
)

// All lists every bookable slot in chronological order.
var All = hourRange(FirstHour, LastHour)

// Time-of-day groupings. Morning and Afternoon carry six slots each,
// Evening carries four.
var (
	Morning   = hourRange(6, 11)
	Afternoon = hourRange(12, 17)
	Evening   = hourRange(18, 21)
)

func hourRange(from, to int) []Slot {
	slots := make([]Slot, 0, to-from+1)
	for h := from; h <= to; h++ {
		slots = append(slots, FromHour(h))
	}
	return slots
}

// FromHour returns the slot label for the given starting hour, e.g. 6 -> "06:00".
func FromHour(hour int) Slot {
	return Slot(fmt.Sprintf("%02d:00", hour))
}

// Hour returns the starting hour of the slot, or -1 if s is not a canonical
// slot label.
func (s Slot) Hour() int {
	str := string(s)
	if len(str) != 5 || !strings.HasSuffix(str, ":00") {
		return -1
	}
	hour, err := strconv.Atoi(str[:2])
	if err != nil || hour < FirstHour || hour > LastHour {
		return -1
	}
	return hour
}

// Index returns the position of s within All, or -1 if s is not canonical.
func (s Slot) Index() int {
	hour := s.Hour()
	if hour < 0 {
		return -1
	}
	return hour - FirstHour
}

// Valid reports whether s is one of the canonical slot labels.
func (s Slot) Valid() bool {
	return s.Hour() >= 0
}

// ByIndex returns the slot at position i within All.
// It panics if i is out of range, mirroring slice indexing.
func ByIndex(i int) Slot {
	return All[i]
}

// Group names a time-of-day grouping of slots.
type Group string

const (
	GroupMorning   Group = "morning"
	GroupAfternoon Group = "afternoon"
	GroupEvening   Group = "evening"
	// GroupAny covers the whole bookable day.
	GroupAny Group = "any"
)

// Groups lists the three narrow groupings in chronological order.
var Groups = []Group{GroupMorning, GroupAfternoon, GroupEvening}

// Valid reports whether g is a known group name.
func (g Group) Valid() bool {
	switch g {
	case GroupMorning, GroupAfternoon, GroupEvening, GroupAny:
		return true
	}
	return false
}

// Slots returns the slots belonging to the group, in chronological order.
// GroupAny and the empty group cover the whole day. The returned slice is
// shared; callers must not modify it.
func (g Group) Slots() []Slot {
	switch g {
	case GroupMorning:
		return Morning
	case GroupAfternoon:
		return Afternoon
	case GroupEvening:
		return Evening
	case GroupAny, "":
		return All
	}
	return nil
}

// GroupOf returns the narrow group containing s. The second return value is
// false if s is not a canonical slot.
func GroupOf(s Slot) (Group, bool) {
	hour := s.Hour()
	switch {
	case hour < 0:
		return "", false
	case hour <= 11:
		return GroupMorning, true
	case hour <= 17:
		return GroupAfternoon, true
	default:
		return GroupEvening, true
	}
}
