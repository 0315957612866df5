package domain

import "time"

// ResourceKind names the three resource types that contend for a time slot.
type ResourceKind string

const (
	ResourceStudent ResourceKind = "student"
	ResourceCoach   ResourceKind = "coach"
	ResourceTable   ResourceKind = "table"
)

// TimeSlot is a half-open interval [StartMinute, EndMinute) of a single day.
// Minutes are counted from midnight, so 14:00 is 840.
type TimeSlot struct {
	Date        time.Time `json:"date"` // date only, midnight UTC
	StartMinute int       `json:"startMinute"`
	EndMinute   int       `json:"endMinute"`
}

// Valid reports whether the slot is a non-empty interval within one day.
func (s TimeSlot) Valid() bool {
	return s.StartMinute >= 0 && s.EndMinute <= 24*60 && s.StartMinute < s.EndMinute
}

// Overlaps applies the half-open overlap test; slots that merely touch at an
// endpoint do not overlap. Slots on different dates never overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	if !sameDate(s.Date, other.Date) {
		return false
	}
	return s.StartMinute < other.EndMinute && other.StartMinute < s.EndMinute
}

// StartAt returns the wall-clock start of the slot.
func (s TimeSlot) StartAt() time.Time {
	return s.Date.Add(time.Duration(s.StartMinute) * time.Minute)
}

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration {
	return time.Duration(s.EndMinute-s.StartMinute) * time.Minute
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
