package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDate            = errors.New("invalid delivery date")
	ErrHoliday                = errors.New("date is a holiday")
	ErrLeadTime               = errors.New("date is inside the minimum lead time")
	ErrDateFullyBooked        = errors.New("date is fully booked")
	ErrSlotFullyBooked        = errors.New("time slot is fully booked")
	ErrUnknownSlot            = errors.New("unknown time slot")
	ErrDeliveryTypeRequired   = errors.New("delivery type is required")
	ErrPickupLocationRequired = errors.New("pickup location is required for pickup orders")
	ErrUnknownPickupLocation  = errors.New("unknown pickup location")
	ErrOrderRefRequired       = errors.New("order reference is required")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrBookingExists          = errors.New("order already has a booking")
	ErrConfiguration          = errors.New("invalid scheduler configuration")
	ErrLedgerUnavailable      = errors.New("capacity ledger unavailable")
)

// ValidationErrors collects every rule a checkout candidate violated, so the
// caller can report them all at once instead of only the first.
type ValidationErrors struct {
	Violations []error
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any individual violation.
func (e *ValidationErrors) Unwrap() []error {
	return e.Violations
}

// CapacityExhausted reports whether err is one of the two expected
// contention outcomes. Those are validation feedback, not faults.
func CapacityExhausted(err error) bool {
	return errors.Is(err, ErrDateFullyBooked) || errors.Is(err, ErrSlotFullyBooked)
}
