package config

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
)

// Provider hands out the current settings snapshot. Implementations must be
// safe for concurrent use; callers read once per request.
//
// A non-nil error wrapping domain.ErrConfiguration still returns the rest of
// the snapshot with no time slots, so callers can fail closed instead of
// crashing.
type Provider interface {
	Settings(ctx context.Context) (Settings, error)
}

// ViperProvider reads settings through a viper instance, typically bound to
// a watched config file plus SCHEDULER_* env overrides.
type ViperProvider struct {
	v *viper.Viper
}

func NewViperProvider(v *viper.Viper) *ViperProvider {
	setDefaults(v)
	return &ViperProvider{v: v}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("minimum_lead_hours", d.MinimumLeadHours)
	v.SetDefault("same_day_cutoff", d.SameDayCutoff)
	v.SetDefault("next_day_cutoff", d.NextDayCutoff)
	v.SetDefault("same_day_charge", d.SameDayCharge)
	v.SetDefault("next_day_charge", d.NextDayCharge)
	v.SetDefault("low_value_charge", d.LowValueCharge)
	v.SetDefault("low_value_threshold", d.LowValueThreshold)
	v.SetDefault("daily_order_limit", d.DailyOrderLimit)
	v.SetDefault("slot_order_limit", d.SlotOrderLimit)
	v.SetDefault("holiday_dates", "")
	v.SetDefault("time_slots", `[{"start":"09:00","end":"12:00"},{"start":"13:00","end":"16:00"}]`)
	v.SetDefault("pickup_locations", []string{})
}

func (p *ViperProvider) Settings(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}

	s := Settings{
		MinimumLeadHours:  p.v.GetInt("minimum_lead_hours"),
		SameDayCutoff:     p.v.GetString("same_day_cutoff"),
		NextDayCutoff:     p.v.GetString("next_day_cutoff"),
		SameDayCharge:     p.v.GetFloat64("same_day_charge"),
		NextDayCharge:     p.v.GetFloat64("next_day_charge"),
		LowValueCharge:    p.v.GetFloat64("low_value_charge"),
		LowValueThreshold: p.v.GetFloat64("low_value_threshold"),
		DailyOrderLimit:   p.v.GetInt("daily_order_limit"),
		SlotOrderLimit:    p.v.GetInt("slot_order_limit"),
		HolidayDates:      ParseHolidays(p.v.GetString("holiday_dates")),
		PickupLocations:   p.v.GetStringSlice("pickup_locations"),
	}

	slots, err := ParseTimeSlots(p.v.GetString("time_slots"))
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	s.TimeSlots = slots
	return s, nil
}

// Static is a fixed-snapshot provider for tests and tooling.
type Static struct {
	S Settings
}

func (p Static) Settings(ctx context.Context) (Settings, error) {
	return p.S, nil
}
