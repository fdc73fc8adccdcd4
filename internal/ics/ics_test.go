package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("renders a delivery event", func(t *testing.T) {
		out, err := Render(domain.Booking{
			OrderRef:  "order-1",
			Date:      "2024-06-02",
			SlotLabel: "09:00-12:00",
			Type:      domain.DeliveryShipping,
		}, "shop.example.com", now)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
		assert.Contains(t, out, "UID:booking-order-1@shop.example.com\r\n")
		assert.Contains(t, out, "DTSTART:20240602T090000Z\r\n")
		assert.Contains(t, out, "DTEND:20240602T120000Z\r\n")
		assert.Contains(t, out, "SUMMARY:Delivery for order order-1\r\n")
		assert.NotContains(t, out, "LOCATION:")
		assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	})

	t.Run("pickup bookings carry the location", func(t *testing.T) {
		out, err := Render(domain.Booking{
			OrderRef:       "order-2",
			Date:           "2024-06-02",
			SlotLabel:      "13:00-16:00",
			Type:           domain.DeliveryPickup,
			PickupLocation: "harbor, pier 3",
		}, "shop.example.com", now)
		require.NoError(t, err)

		assert.Contains(t, out, "SUMMARY:Pickup for order order-2\r\n")
		assert.Contains(t, out, `LOCATION:harbor\, pier 3`)
	})

	t.Run("malformed slot label is not exportable", func(t *testing.T) {
		_, err := Render(domain.Booking{
			OrderRef:  "order-3",
			Date:      "2024-06-02",
			SlotLabel: "afternoon",
		}, "shop.example.com", now)
		assert.ErrorIs(t, err, domain.ErrUnknownSlot)
	})
}
