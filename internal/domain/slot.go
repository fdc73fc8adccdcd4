package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format for delivery dates.
const DateLayout = "2006-01-02"

// fallbackSlotStart is used when a slot label cannot be split into start and
// end. Sorting malformed slots to the end of the day makes the lead-time
// check reject them for same-day bookings instead of silently accepting them.
const fallbackSlotStart = "23:59:59"

// TimeSlot is one configured delivery window within a day, times as "HH:MM".
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Label derives the ledger key for the slot, e.g. "09:00-12:00".
func (s TimeSlot) Label() string {
	return s.Start + "-" + s.End
}

// Valid reports whether both times parse and the window is non-empty.
func (s TimeSlot) Valid() bool {
	start, err := time.Parse("15:04", s.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", s.End)
	if err != nil {
		return false
	}
	return start.Before(end)
}

// SlotStart extracts the start time from a slot label. Labels without a dash
// separator, or with an empty first component, fall back to end of day.
func SlotStart(label string) string {
	start, _, ok := strings.Cut(label, "-")
	if !ok {
		return fallbackSlotStart
	}
	start = strings.TrimSpace(start)
	if start == "" {
		return fallbackSlotStart
	}
	return start
}

// SlotBounds splits a label into trimmed start and end times. Unlike
// SlotStart it has no fallback: a malformed label is an error.
func SlotBounds(label string) (start, end string, err error) {
	start, end, ok := strings.Cut(label, "-")
	if !ok {
		return "", "", ErrUnknownSlot
	}
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return "", "", ErrUnknownSlot
	}
	return start, end, nil
}

// SlotStartInstant combines a delivery date with a slot label's start time
// into an instant in UTC. The date must be valid; the start time falls back
// to end of day when the label is malformed.
func SlotStartInstant(date, label string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return combine(day, SlotStart(label)), nil
}

func combine(day time.Time, clockTime string) time.Time {
	layouts := []string{"15:04", "15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, clockTime); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		}
	}
	// Unparsable start time gets the same end-of-day treatment as a
	// missing one.
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
}
