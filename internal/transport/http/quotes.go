package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cimillas/delivery-scheduler/internal/domain"
)

// FeeQuoter computes the surcharges for a candidate date and subtotal.
type FeeQuoter interface {
	QuoteFees(ctx context.Context, date string, subtotal float64) ([]domain.Fee, error)
}

// HandleQuoteFees returns the surcharge quote handler.
func HandleQuoteFees(svc FeeQuoter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteFeesRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		fees, err := svc.QuoteFees(r.Context(), req.DeliveryDate, req.Subtotal)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if fees == nil {
			fees = []domain.Fee{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(quoteFeesResponse{Fees: fees})
	}
}

type quoteFeesRequest struct {
	DeliveryDate string  `json:"delivery_date"`
	Subtotal     float64 `json:"subtotal"`
}

type quoteFeesResponse struct {
	Fees []domain.Fee `json:"fees"`
}
