package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/clock"
	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/go-chi/chi/v5"
)

type fakeGetter struct {
	booking domain.Booking
	err     error
}

func (f *fakeGetter) GetBooking(ctx context.Context, orderRef string) (domain.Booking, error) {
	if f.err != nil {
		return domain.Booking{}, f.err
	}
	return f.booking, nil
}

func TestHandleCalendarExport(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	tokens := NewCalendarTokens([]byte("0123456789abcdef0123456789abcdef"))

	newServer := func(svc BookingGetter) *chi.Mux {
		r := chi.NewRouter()
		r.Get("/bookings/{orderRef}/calendar", HandleCalendarExport(svc, tokens, "shop.example.com", clock.NewFixed(now)))
		return r
	}

	t.Run("serves the calendar file with a valid token", func(t *testing.T) {
		token, err := tokens.Mint("order-1")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}

		r := newServer(&fakeGetter{booking: testBooking})
		req := httptest.NewRequest(http.MethodGet, "/bookings/order-1/calendar?token="+token, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
			t.Fatalf("unexpected content type %q", ct)
		}
		if !strings.Contains(rec.Body.String(), "BEGIN:VEVENT") {
			t.Fatalf("expected an event, got %s", rec.Body.String())
		}
	})

	t.Run("rejects a missing or foreign token", func(t *testing.T) {
		otherToken, err := tokens.Mint("order-2")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}

		r := newServer(&fakeGetter{booking: testBooking})
		for _, url := range []string{
			"/bookings/order-1/calendar",
			"/bookings/order-1/calendar?token=" + otherToken,
			"/bookings/order-1/calendar?token=garbage",
		} {
			req := httptest.NewRequest(http.MethodGet, url, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403 for %s, got %d", url, rec.Code)
			}
		}
	})

	t.Run("missing booking is a 404", func(t *testing.T) {
		token, _ := tokens.Mint("order-1")
		r := newServer(&fakeGetter{err: domain.ErrBookingNotFound})
		req := httptest.NewRequest(http.MethodGet, "/bookings/order-1/calendar?token="+token, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
