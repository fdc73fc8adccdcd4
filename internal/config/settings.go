package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cimillas/delivery-scheduler/internal/domain"
)

// Settings is the scheduling configuration snapshot a single request runs
// against. It is read fresh per invocation so admin edits apply without a
// restart, but one request never sees two versions.
type Settings struct {
	MinimumLeadHours  int
	SameDayCutoff     string
	NextDayCutoff     string
	SameDayCharge     float64
	NextDayCharge     float64
	LowValueCharge    float64
	LowValueThreshold float64
	DailyOrderLimit   int
	SlotOrderLimit    int
	HolidayDates      []string
	TimeSlots         []domain.TimeSlot
	PickupLocations   []string
}

// Defaults mirrors the shipped configuration of the store.
func Defaults() Settings {
	return Settings{
		MinimumLeadHours:  4,
		SameDayCutoff:     "14:00",
		NextDayCutoff:     "20:00",
		SameDayCharge:     5,
		NextDayCharge:     2,
		LowValueCharge:    4,
		LowValueThreshold: 50,
		DailyOrderLimit:   100,
		SlotOrderLimit:    10,
		TimeSlots: []domain.TimeSlot{
			{Start: "09:00", End: "12:00"},
			{Start: "13:00", End: "16:00"},
		},
	}
}

// IsHoliday reports whether date appears in the holiday list.
func (s Settings) IsHoliday(date string) bool {
	for _, h := range s.HolidayDates {
		if h == date {
			return true
		}
	}
	return false
}

// FindSlot returns the configured slot matching a label.
func (s Settings) FindSlot(label string) (domain.TimeSlot, bool) {
	for _, slot := range s.TimeSlots {
		if slot.Label() == label {
			return slot, true
		}
	}
	return domain.TimeSlot{}, false
}

// HasPickupLocation reports whether location is in the configured directory.
func (s Settings) HasPickupLocation(location string) bool {
	for _, loc := range s.PickupLocations {
		if loc == location {
			return true
		}
	}
	return false
}

// ParseTimeSlots decodes the admin-edited slots JSON. Slots that fail to
// parse or have start >= end are dropped; a document that is not valid JSON
// at all is a configuration error and yields no slots.
func ParseTimeSlots(raw string) ([]domain.TimeSlot, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, fmt.Errorf("parse time slots: %w", domain.ErrConfiguration)
	}

	out := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.Valid() {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

// ParseHolidays splits the comma-separated holiday list, dropping blanks.
func ParseHolidays(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
