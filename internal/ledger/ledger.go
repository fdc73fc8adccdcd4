// Package ledger defines the capacity ledger contract: durable counters
// keyed by date and by (date, slot), with an atomic reserve protocol.
package ledger

import "context"

// Ledger tracks how many bookings have consumed each date and slot.
//
// TryReserve is a single atomic check-and-increment over both counters:
// either both are bumped under their limits, or neither moves and the call
// fails with domain.ErrDateFullyBooked or domain.ErrSlotFullyBooked. Under N
// concurrent callers racing for the last unit, exactly one wins.
//
// Release decrements both counters floored at zero. The ledger does not
// track releases per order; callers must ensure at most one release per
// reservation.
//
// Implementations map backend failures to domain.ErrLedgerUnavailable.
type Ledger interface {
	TryReserve(ctx context.Context, date, slotLabel string, dailyLimit, slotLimit int) error
	Release(ctx context.Context, date, slotLabel string) error
	DateCount(ctx context.Context, date string) (int, error)
	SlotCount(ctx context.Context, date, slotLabel string) (int, error)
}
