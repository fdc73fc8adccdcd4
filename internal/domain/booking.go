package domain

import "time"

type DeliveryType string

const (
	DeliveryShipping DeliveryType = "shipping"
	DeliveryPickup   DeliveryType = "pickup"
)

// ParseDeliveryType maps user input to a delivery type. Empty or unknown
// values come back false.
func ParseDeliveryType(s string) (DeliveryType, bool) {
	switch DeliveryType(s) {
	case DeliveryShipping:
		return DeliveryShipping, true
	case DeliveryPickup:
		return DeliveryPickup, true
	default:
		return "", false
	}
}

type BookingStatus string

const (
	BookingStatusReserved BookingStatus = "reserved"
	BookingStatusReleased BookingStatus = "released"
)

// ReleaseTrigger names the order-lifecycle event that caused a release.
type ReleaseTrigger string

const (
	TriggerCancelled ReleaseTrigger = "cancelled"
	TriggerRefunded  ReleaseTrigger = "refunded"
)

// Booking is one reserved unit of date and slot capacity, tied to an
// externally owned order by OrderRef. Capacity is consumed while the booking
// stays reserved; a released booking has given both units back.
type Booking struct {
	ID             string
	OrderRef       string
	Date           string
	SlotLabel      string
	Type           DeliveryType
	PickupLocation string
	Status         BookingStatus
	CreatedAt      time.Time
	ReleasedAt     *time.Time
}
