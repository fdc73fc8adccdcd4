package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/availability"
	"github.com/cimillas/delivery-scheduler/internal/clock"
	"github.com/cimillas/delivery-scheduler/internal/config"
	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/cimillas/delivery-scheduler/internal/ledger"
	"github.com/cimillas/delivery-scheduler/internal/pricing"
	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, b domain.Booking) error
	GetByOrderRef(ctx context.Context, orderRef string) (domain.Booking, error)
	MarkReleased(ctx context.Context, orderRef string, at time.Time) (bool, error)
	ListBetween(ctx context.Context, from, to string) ([]domain.Booking, error)
}

// BookingService composes the availability checks and the capacity ledger
// into the reserve/release protocol run at checkout and on order-status
// transitions.
type BookingService struct {
	repo     BookingRepository
	ledger   ledger.Ledger
	settings config.Provider
	clock    clock.Clock
}

func NewBookingService(repo BookingRepository, led ledger.Ledger, settings config.Provider, clk clock.Clock) *BookingService {
	return &BookingService{
		repo:     repo,
		ledger:   led,
		settings: settings,
		clock:    clk,
	}
}

type CreateBookingInput struct {
	OrderRef       string
	Date           string
	SlotLabel      string
	DeliveryType   string
	PickupLocation string
}

// CreateBooking validates a checkout candidate, reserves one unit of date
// and slot capacity, and persists the booking. Every failed validation rule
// is reported, not just the first. A failed attempt leaves no partial state:
// validation mutates nothing, and a reservation whose booking cannot be
// persisted is released again.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		// A malformed slot configuration still fails closed through
		// validation below (no slots configured); anything else is fatal.
		if !errors.Is(err, domain.ErrConfiguration) {
			return domain.Booking{}, err
		}
	}

	now := s.clock.Now()
	var violations []error

	if in.OrderRef == "" {
		violations = append(violations, domain.ErrOrderRefRequired)
	}

	deliveryType, ok := domain.ParseDeliveryType(in.DeliveryType)
	if !ok {
		violations = append(violations, domain.ErrDeliveryTypeRequired)
	}
	if deliveryType == domain.DeliveryPickup {
		switch {
		case in.PickupLocation == "":
			violations = append(violations, domain.ErrPickupLocationRequired)
		case len(cfg.PickupLocations) > 0 && !cfg.HasPickupLocation(in.PickupLocation):
			violations = append(violations, domain.ErrUnknownPickupLocation)
		}
	}

	if _, ok := cfg.FindSlot(in.SlotLabel); !ok {
		violations = append(violations, domain.ErrUnknownSlot)
	}

	dateCount, err := s.ledger.DateCount(ctx, in.Date)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := availability.CheckDate(in.Date, in.SlotLabel, now, cfg, dateCount); err != nil {
		violations = append(violations, err)
	}

	slotCount, err := s.ledger.SlotCount(ctx, in.Date, in.SlotLabel)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := availability.CheckSlot(slotCount, cfg); err != nil {
		violations = append(violations, err)
	}

	if len(violations) > 0 {
		return domain.Booking{}, &domain.ValidationErrors{Violations: violations}
	}

	// The advisory checks above are racy by nature; the reservation
	// re-validates both limits atomically. Losing the race here looks
	// exactly like the advisory check failing.
	if err := s.ledger.TryReserve(ctx, in.Date, in.SlotLabel, cfg.DailyOrderLimit, cfg.SlotOrderLimit); err != nil {
		if domain.CapacityExhausted(err) {
			return domain.Booking{}, &domain.ValidationErrors{Violations: []error{err}}
		}
		return domain.Booking{}, err
	}

	booking := domain.Booking{
		ID:             uuid.NewString(),
		OrderRef:       in.OrderRef,
		Date:           in.Date,
		SlotLabel:      in.SlotLabel,
		Type:           deliveryType,
		PickupLocation: in.PickupLocation,
		Status:         domain.BookingStatusReserved,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		// Give the units back so a failed attempt is safely retryable.
		if relErr := s.ledger.Release(ctx, in.Date, in.SlotLabel); relErr != nil {
			return domain.Booking{}, fmt.Errorf("%w (release after failed persist: %v)", err, relErr)
		}
		return domain.Booking{}, err
	}

	return booking, nil
}

// ReleaseBooking hands date and slot capacity back when an order is
// cancelled or refunded. It is idempotent: the conditional status flip fires
// at most once per booking, so a duplicate event never decrements twice.
func (s *BookingService) ReleaseBooking(ctx context.Context, orderRef string, trigger domain.ReleaseTrigger) (domain.Booking, error) {
	booking, err := s.repo.GetByOrderRef(ctx, orderRef)
	if err != nil {
		return domain.Booking{}, err
	}

	now := s.clock.Now()
	released, err := s.repo.MarkReleased(ctx, orderRef, now)
	if err != nil {
		return domain.Booking{}, err
	}
	if !released {
		// Second cancellation/refund for an already-released order.
		return booking, nil
	}

	if err := s.ledger.Release(ctx, booking.Date, booking.SlotLabel); err != nil {
		// The booking is marked released but the counters kept the
		// units: capacity stays conservatively consumed rather than
		// risking a double decrement on retry.
		return domain.Booking{}, err
	}

	booking.Status = domain.BookingStatusReleased
	booking.ReleasedAt = &now
	return booking, nil
}

// GetBooking looks a booking up by its order reference.
func (s *BookingService) GetBooking(ctx context.Context, orderRef string) (domain.Booking, error) {
	return s.repo.GetByOrderRef(ctx, orderRef)
}

// ListBookings returns the bookings with delivery dates in [from, to] for
// the admin calendar.
func (s *BookingService) ListBookings(ctx context.Context, from, to string) ([]domain.Booking, error) {
	if _, err := time.Parse(domain.DateLayout, from); err != nil {
		return nil, domain.ErrInvalidDate
	}
	if _, err := time.Parse(domain.DateLayout, to); err != nil {
		return nil, domain.ErrInvalidDate
	}
	return s.repo.ListBetween(ctx, from, to)
}

// QuoteFees computes the surcharges a candidate date and cart subtotal would
// attract right now.
func (s *BookingService) QuoteFees(ctx context.Context, date string, subtotal float64) ([]domain.Fee, error) {
	cfg, err := s.settings.Settings(ctx)
	if err != nil && !errors.Is(err, domain.ErrConfiguration) {
		return nil, err
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, domain.ErrInvalidDate
	}
	return pricing.ComputeFees(date, subtotal, s.clock.Now(), cfg), nil
}

// SlotAvailability is one configured slot with its bookability verdict for a
// given date.
type SlotAvailability struct {
	Slot     domain.TimeSlot
	Label    string
	Bookable bool
	Reason   string
}

// AvailableSlots evaluates every configured slot for a date. Verdicts are
// advisory; the reservation re-checks atomically.
func (s *BookingService) AvailableSlots(ctx context.Context, date string) ([]SlotAvailability, error) {
	cfg, err := s.settings.Settings(ctx)
	if err != nil && !errors.Is(err, domain.ErrConfiguration) {
		return nil, err
	}

	now := s.clock.Now()
	dateCount, err := s.ledger.DateCount(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]SlotAvailability, 0, len(cfg.TimeSlots))
	for _, slot := range cfg.TimeSlots {
		label := slot.Label()
		entry := SlotAvailability{Slot: slot, Label: label, Bookable: true}

		if err := availability.CheckDate(date, label, now, cfg, dateCount); err != nil {
			entry.Bookable = false
			entry.Reason = err.Error()
			out = append(out, entry)
			continue
		}

		slotCount, err := s.ledger.SlotCount(ctx, date, label)
		if err != nil {
			return nil, err
		}
		if err := availability.CheckSlot(slotCount, cfg); err != nil {
			entry.Bookable = false
			entry.Reason = err.Error()
		}
		out = append(out, entry)
	}
	return out, nil
}
