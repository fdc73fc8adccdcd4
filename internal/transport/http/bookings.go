package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/app"
	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/go-chi/chi/v5"
)

// BookingCreator is the minimal interface needed to book a checkout
// candidate.
type BookingCreator interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error)
}

// HandleCreateBooking returns the checkout handler.
func HandleCreateBooking(svc BookingCreator, tokens *CalendarTokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		booking, err := svc.CreateBooking(r.Context(), app.CreateBookingInput{
			OrderRef:       req.OrderRef,
			Date:           req.DeliveryDate,
			SlotLabel:      req.DeliverySlot,
			DeliveryType:   req.DeliveryType,
			PickupLocation: req.PickupLocation,
		})
		if err != nil {
			var verr *domain.ValidationErrors
			if errors.As(err, &verr) {
				writeViolations(w, verr)
				return
			}
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(bookingView(booking, tokens))
	}
}

// BookingReleaser handles the order-status transitions that hand capacity
// back.
type BookingReleaser interface {
	ReleaseBooking(ctx context.Context, orderRef string, trigger domain.ReleaseTrigger) (domain.Booking, error)
}

// HandleOrderEvent returns the order-status webhook handler. Cancelled and
// refunded release the booking; any other event is rejected.
func HandleOrderEvent(svc BookingReleaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderRef := chi.URLParam(r, "orderRef")

		var req orderEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		var trigger domain.ReleaseTrigger
		switch req.Event {
		case string(domain.TriggerCancelled):
			trigger = domain.TriggerCancelled
		case string(domain.TriggerRefunded):
			trigger = domain.TriggerRefunded
		default:
			writeError(w, http.StatusBadRequest, codeInvalidEvent, "event must be cancelled or refunded")
			return
		}

		booking, err := svc.ReleaseBooking(r.Context(), orderRef, trigger)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(bookingView(booking, nil))
	}
}

// BookingLister feeds the admin calendar.
type BookingLister interface {
	ListBookings(ctx context.Context, from, to string) ([]domain.Booking, error)
}

// HandleListBookings returns the admin calendar feed between two dates.
func HandleListBookings(svc BookingLister, tokens *CalendarTokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "from and to are required")
			return
		}

		bookings, err := svc.ListBookings(r.Context(), from, to)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		views := make([]bookingResponse, 0, len(bookings))
		for _, b := range bookings {
			views = append(views, bookingView(b, tokens))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(listBookingsResponse{Bookings: views})
	}
}

type createBookingRequest struct {
	OrderRef       string `json:"order_ref"`
	DeliveryDate   string `json:"delivery_date"`
	DeliverySlot   string `json:"delivery_slot"`
	DeliveryType   string `json:"delivery_type"`
	PickupLocation string `json:"pickup_location"`
}

type orderEventRequest struct {
	Event string `json:"event"`
}

type bookingResponse struct {
	ID             string     `json:"id"`
	OrderRef       string     `json:"order_ref"`
	DeliveryDate   string     `json:"delivery_date"`
	DeliverySlot   string     `json:"delivery_slot"`
	DeliveryType   string     `json:"delivery_type"`
	PickupLocation string     `json:"pickup_location,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ReleasedAt     *time.Time `json:"released_at,omitempty"`
	CalendarToken  string     `json:"calendar_token,omitempty"`
}

type listBookingsResponse struct {
	Bookings []bookingResponse `json:"bookings"`
}

func bookingView(b domain.Booking, tokens *CalendarTokens) bookingResponse {
	resp := bookingResponse{
		ID:             b.ID,
		OrderRef:       b.OrderRef,
		DeliveryDate:   b.Date,
		DeliverySlot:   b.SlotLabel,
		DeliveryType:   string(b.Type),
		PickupLocation: b.PickupLocation,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		ReleasedAt:     b.ReleasedAt,
	}
	if tokens != nil {
		if token, err := tokens.Mint(b.OrderRef); err == nil {
			resp.CalendarToken = token
		}
	}
	return resp
}
