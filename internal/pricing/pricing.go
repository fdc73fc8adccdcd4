// Package pricing derives delivery surcharges from configuration and the
// chosen date. It never touches the capacity ledger.
package pricing

import (
	"regexp"
	"time"

	"github.com/cimillas/delivery-scheduler/internal/config"
	"github.com/cimillas/delivery-scheduler/internal/domain"
)

const (
	SameDayFeeLabel  = "Same-day delivery charge"
	NextDayFeeLabel  = "Next-day delivery charge"
	LowValueFeeLabel = "Small order delivery charge"
)

var cutoffPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ComputeFees returns the surcharge lines for a candidate date and cart
// subtotal. The checks are independent; zero or more fees may apply. Emission
// order is fixed: same-day, next-day, low-value.
func ComputeFees(date string, subtotal float64, now time.Time, s config.Settings) []domain.Fee {
	var fees []domain.Fee

	today := now.Format(domain.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(domain.DateLayout)

	if date == today && beforeCutoff(now, s.SameDayCutoff) {
		fees = append(fees, domain.Fee{Label: SameDayFeeLabel, Amount: s.SameDayCharge})
	}
	if date == tomorrow && beforeCutoff(now, s.NextDayCutoff) {
		fees = append(fees, domain.Fee{Label: NextDayFeeLabel, Amount: s.NextDayCharge})
	}
	if subtotal < s.LowValueThreshold {
		fees = append(fees, domain.Fee{Label: LowValueFeeLabel, Amount: s.LowValueCharge})
	}
	return fees
}

// beforeCutoff reports whether now is at or before the HH:MM cutoff on the
// current day. An absent or malformed cutoff counts as always-before: the
// surcharge rules fail open, unlike availability.
func beforeCutoff(now time.Time, cutoff string) bool {
	if !cutoffPattern.MatchString(cutoff) {
		return true
	}
	t, err := time.Parse("15:04", cutoff)
	if err != nil {
		return true
	}
	boundary := time.Date(now.Year(), now.Month(), now.Day(),
		t.Hour(), t.Minute(), 0, 0, now.Location())
	return !now.After(boundary)
}
