package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/app"
	"github.com/cimillas/delivery-scheduler/internal/clock"
	"github.com/cimillas/delivery-scheduler/internal/config"
	"github.com/cimillas/delivery-scheduler/internal/storage/postgres"
	"github.com/cimillas/delivery-scheduler/internal/testutil"
)

// Full checkout lifecycle against a real Postgres ledger: reserve, list,
// export, release, re-reserve.
func TestRouterIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	settings := config.Defaults()
	settings.DailyOrderLimit = 10
	settings.SlotOrderLimit = 1

	svc := app.NewBookingService(
		postgres.NewBookingRepository(pool),
		postgres.NewLedgerRepository(pool),
		config.Static{S: settings},
		clock.NewFixed(now),
	)

	tokens := NewCalendarTokens([]byte("0123456789abcdef0123456789abcdef"))
	router := NewRouter(svc, RouterConfig{
		Tokens: tokens,
		Host:   "shop.example.com",
		Clock:  clock.NewFixed(now),
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	createBody := func(ref string) string {
		return fmt.Sprintf(`{"order_ref":%q,"delivery_date":"2024-06-02","delivery_slot":"09:00-12:00","delivery_type":"shipping"}`, ref)
	}

	// First booking takes the slot's only unit.
	rec := do(http.MethodPost, "/bookings", createBody("order-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.CalendarToken == "" {
		t.Fatalf("expected a calendar token in the response")
	}

	// Second booking for the same slot loses on capacity.
	rec = do(http.MethodPost, "/bookings", createBody("order-2"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), codeSlotFullyBooked) {
		t.Fatalf("expected slot_fully_booked, got %s", rec.Body.String())
	}

	// Admin calendar sees the booking.
	rec = do(http.MethodGet, "/bookings?from=2024-06-01&to=2024-06-30", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"order_ref":"order-1"`) {
		t.Fatalf("list: got %d (%s)", rec.Code, rec.Body.String())
	}

	// Calendar export works with the minted token.
	rec = do(http.MethodGet, "/bookings/order-1/calendar?token="+created.CalendarToken, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "DTSTART:20240602T090000Z") {
		t.Fatalf("export: got %d (%s)", rec.Code, rec.Body.String())
	}

	// Cancelling releases the unit; a duplicate event is absorbed.
	for i := 0; i < 2; i++ {
		rec = do(http.MethodPost, "/bookings/order-1/events", `{"event":"cancelled"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("release %d: expected 200, got %d (%s)", i, rec.Code, rec.Body.String())
		}
	}

	// Capacity is reusable after the release.
	rec = do(http.MethodPost, "/bookings", createBody("order-3"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("rebook: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}
