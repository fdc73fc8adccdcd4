package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cimillas/delivery-scheduler/internal/domain"
)

type fakeQuoter struct {
	fees []domain.Fee
	err  error
}

func (f *fakeQuoter) QuoteFees(ctx context.Context, date string, subtotal float64) ([]domain.Fee, error) {
	return f.fees, f.err
}

func TestHandleQuoteFees(t *testing.T) {
	t.Parallel()

	t.Run("returns fee lines in order", func(t *testing.T) {
		handler := HandleQuoteFees(&fakeQuoter{fees: []domain.Fee{
			{Label: "Same-day delivery charge", Amount: 5},
			{Label: "Small order delivery charge", Amount: 4},
		}})
		req := httptest.NewRequest(http.MethodPost, "/fees/quote",
			bytes.NewBufferString(`{"delivery_date":"2024-06-01","subtotal":10}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Same-day delivery charge") || !strings.Contains(body, "Small order delivery charge") {
			t.Fatalf("unexpected body: %s", body)
		}
	})

	t.Run("no fees is an empty list, not null", func(t *testing.T) {
		handler := HandleQuoteFees(&fakeQuoter{})
		req := httptest.NewRequest(http.MethodPost, "/fees/quote",
			bytes.NewBufferString(`{"delivery_date":"2024-06-10","subtotal":100}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !strings.Contains(rec.Body.String(), `"fees":[]`) {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("malformed date is a 400", func(t *testing.T) {
		handler := HandleQuoteFees(&fakeQuoter{err: domain.ErrInvalidDate})
		req := httptest.NewRequest(http.MethodPost, "/fees/quote",
			bytes.NewBufferString(`{"delivery_date":"junk","subtotal":10}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
