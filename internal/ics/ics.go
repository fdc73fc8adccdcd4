// Package ics renders a single booking as an iCalendar event for the
// customer's "add to calendar" link.
package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/domain"
)

const stampLayout = "20060102T150405Z"

// Render produces a VCALENDAR document with one VEVENT spanning the
// booking's delivery window. Bookings with a malformed slot label cannot be
// exported.
func Render(b domain.Booking, host string, now time.Time) (string, error) {
	startStr, endStr, err := domain.SlotBounds(b.SlotLabel)
	if err != nil {
		return "", err
	}

	start, err := parseInstant(b.Date, startStr)
	if err != nil {
		return "", err
	}
	end, err := parseInstant(b.Date, endStr)
	if err != nil {
		return "", err
	}

	summary := fmt.Sprintf("Delivery for order %s", b.OrderRef)
	if b.Type == domain.DeliveryPickup {
		summary = fmt.Sprintf("Pickup for order %s", b.OrderRef)
	}

	var sb strings.Builder
	writeLine := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//delivery-scheduler//EN")
	writeLine("BEGIN:VEVENT")
	writeLine(fmt.Sprintf("UID:booking-%s@%s", b.OrderRef, host))
	writeLine("DTSTAMP:" + now.UTC().Format(stampLayout))
	writeLine("DTSTART:" + start.Format(stampLayout))
	writeLine("DTEND:" + end.Format(stampLayout))
	writeLine("SUMMARY:" + escape(summary))
	if b.PickupLocation != "" {
		writeLine("LOCATION:" + escape(b.PickupLocation))
	}
	writeLine("END:VEVENT")
	writeLine("END:VCALENDAR")
	return sb.String(), nil
}

func parseInstant(date, clockTime string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clockTime, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.ErrInvalidDate
}

// escape applies RFC 5545 text escaping.
func escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
