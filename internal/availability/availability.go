// Package availability holds the pure bookability checks run before any
// capacity is reserved. Nothing here mutates state; counters are read by the
// caller and passed in.
package availability

import (
	"time"

	"github.com/cimillas/delivery-scheduler/internal/config"
	"github.com/cimillas/delivery-scheduler/internal/domain"
)

// CheckDate applies the date-level vetoes in order and returns the first one
// that fails, or nil when the candidate is bookable:
//
//  1. the date parses as a calendar date
//  2. the date is not a holiday
//  3. the slot's start instant is at least the minimum lead time away
//  4. the date's booking count is under the daily limit
//
// A slot label that cannot be split into start and end is treated as
// starting at 23:59:59, so same-day candidates fall to the lead-time check
// instead of slipping through.
func CheckDate(date, slotLabel string, now time.Time, s config.Settings, dateCount int) error {
	startsAt, err := domain.SlotStartInstant(date, slotLabel)
	if err != nil {
		return domain.ErrInvalidDate
	}

	if s.IsHoliday(date) {
		return domain.ErrHoliday
	}

	earliest := now.Add(time.Duration(s.MinimumLeadHours) * time.Hour)
	if startsAt.Before(earliest) {
		return domain.ErrLeadTime
	}

	// A zero daily limit means the calendar is closed, not unlimited.
	if dateCount >= s.DailyOrderLimit {
		return domain.ErrDateFullyBooked
	}
	return nil
}

// CheckSlot vetoes a candidate whose (date, slot) count has reached the
// per-slot limit.
func CheckSlot(slotCount int, s config.Settings) error {
	if slotCount >= s.SlotOrderLimit {
		return domain.ErrSlotFullyBooked
	}
	return nil
}

// IsBookable is the boolean form of CheckDate.
func IsBookable(date, slotLabel string, now time.Time, s config.Settings, dateCount int) bool {
	return CheckDate(date, slotLabel, now, s, dateCount) == nil
}

// IsSlotBookable is the boolean form of CheckSlot.
func IsSlotBookable(slotCount int, s config.Settings) bool {
	return CheckSlot(slotCount, s) == nil
}
