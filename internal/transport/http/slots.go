package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/app"
	"github.com/cimillas/delivery-scheduler/internal/domain"
)

// SlotLister evaluates the configured slots for a date.
type SlotLister interface {
	AvailableSlots(ctx context.Context, date string) ([]app.SlotAvailability, error)
}

// HandleListSlots renders the checkout slot picker for a date. Verdicts are
// advisory; the booking call re-checks atomically.
func HandleListSlots(svc SlotLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "date query parameter must be YYYY-MM-DD")
			return
		}

		slots, err := svc.AvailableSlots(r.Context(), date)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		views := make([]slotResponse, 0, len(slots))
		for _, s := range slots {
			views = append(views, slotResponse{
				Label:    s.Label,
				Start:    s.Slot.Start,
				End:      s.Slot.End,
				Bookable: s.Bookable,
				Reason:   s.Reason,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(listSlotsResponse{Date: date, Slots: views})
	}
}

type slotResponse struct {
	Label    string `json:"label"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Bookable bool   `json:"bookable"`
	Reason   string `json:"reason,omitempty"`
}

type listSlotsResponse struct {
	Date  string         `json:"date"`
	Slots []slotResponse `json:"slots"`
}
