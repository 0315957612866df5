package dto

import (
	"fmt"
	"time"

	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, apperrors.ErrValidation)
	}
	return d, nil
}

// ParseClock parses an HH:MM time of day into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, apperrors.ErrValidation)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseSlot builds a TimeSlot from date and HH:MM strings, validating that
// the interval is non-empty.
func ParseSlot(date, start, end string) (domain.TimeSlot, error) {
	d, err := ParseDate(date)
	if err != nil {
		return domain.TimeSlot{}, err
	}
	s, err := ParseClock(start)
	if err != nil {
		return domain.TimeSlot{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return domain.TimeSlot{}, err
	}
	slot := domain.TimeSlot{Date: d, StartMinute: s, EndMinute: e}
	if !slot.Valid() {
		return domain.TimeSlot{}, fmt.Errorf("end time must be after start time: %w", apperrors.ErrValidation)
	}
	return slot, nil
}

// ParseDateTime parses an RFC 3339 timestamp, falling back to a date-only
// value interpreted as UTC midnight.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, apperrors.ErrValidation)
	}
	return t, nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
