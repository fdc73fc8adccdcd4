package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cimillas/delivery-scheduler/internal/domain"
)

const (
	codeNotFound               = "not_found"
	codeInvalidRequestBody     = "invalid_request_body"
	codeOrderRefRequired       = "order_ref_required"
	codeDeliveryTypeRequired   = "delivery_type_required"
	codePickupLocationRequired = "pickup_location_required"
	codeUnknownPickupLocation  = "unknown_pickup_location"
	codeUnknownSlot            = "unknown_slot"
	codeInvalidDate            = "invalid_date"
	codeHoliday                = "holiday"
	codeLeadTime               = "lead_time"
	codeDateFullyBooked        = "date_fully_booked"
	codeSlotFullyBooked        = "slot_fully_booked"
	codeBookingExists          = "booking_exists"
	codeBookingNotFound        = "booking_not_found"
	codeInvalidEvent           = "invalid_event"
	codeLedgerUnavailable      = "ledger_unavailable"
	codeForbidden              = "forbidden"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type validationResponse struct {
	Errors []errorResponse `json:"errors"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeViolations reports every failed checkout rule in one body. Capacity
// exhaustion rides along as 409, everything else as 422.
func writeViolations(w http.ResponseWriter, verr *domain.ValidationErrors) {
	status := http.StatusUnprocessableEntity
	if domain.CapacityExhausted(verr) {
		status = http.StatusConflict
	}

	resp := validationResponse{Errors: make([]errorResponse, 0, len(verr.Violations))}
	for _, v := range verr.Violations {
		resp.Errors = append(resp.Errors, errorResponse{Error: v.Error(), Code: ruleCode(v)})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func ruleCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrOrderRefRequired):
		return codeOrderRefRequired
	case errors.Is(err, domain.ErrDeliveryTypeRequired):
		return codeDeliveryTypeRequired
	case errors.Is(err, domain.ErrPickupLocationRequired):
		return codePickupLocationRequired
	case errors.Is(err, domain.ErrUnknownPickupLocation):
		return codeUnknownPickupLocation
	case errors.Is(err, domain.ErrUnknownSlot):
		return codeUnknownSlot
	case errors.Is(err, domain.ErrInvalidDate):
		return codeInvalidDate
	case errors.Is(err, domain.ErrHoliday):
		return codeHoliday
	case errors.Is(err, domain.ErrLeadTime):
		return codeLeadTime
	case errors.Is(err, domain.ErrDateFullyBooked):
		return codeDateFullyBooked
	case errors.Is(err, domain.ErrSlotFullyBooked):
		return codeSlotFullyBooked
	default:
		return codeInternalError
	}
}

// writeServiceError maps non-validation service failures onto statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
	case errors.Is(err, domain.ErrBookingExists):
		writeError(w, http.StatusConflict, codeBookingExists, err.Error())
	case errors.Is(err, domain.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, codeInvalidDate, err.Error())
	case errors.Is(err, domain.ErrLedgerUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeLedgerUnavailable, "capacity ledger unavailable")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
