package http

import (
	"context"
	"net/http"

	"github.com/cimillas/delivery-scheduler/internal/clock"
	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/cimillas/delivery-scheduler/internal/ics"
	"github.com/go-chi/chi/v5"
)

// BookingGetter looks a single booking up for export.
type BookingGetter interface {
	GetBooking(ctx context.Context, orderRef string) (domain.Booking, error)
}

// HandleCalendarExport serves a booking as an iCalendar file behind its
// signed link token.
func HandleCalendarExport(svc BookingGetter, tokens *CalendarTokens, host string, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderRef := chi.URLParam(r, "orderRef")

		token := r.URL.Query().Get("token")
		if token == "" || !tokens.Verify(orderRef, token) {
			writeError(w, http.StatusForbidden, codeForbidden, "invalid calendar token")
			return
		}

		booking, err := svc.GetBooking(r.Context(), orderRef)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		body, err := ics.Render(booking, host, clk.Now())
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeUnknownSlot, "booking cannot be exported")
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="delivery.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}
