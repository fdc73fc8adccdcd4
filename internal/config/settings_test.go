package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cimillas/delivery-scheduler/internal/domain"
)

func TestParseTimeSlots(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		slots, err := ParseTimeSlots(`[{"start":"09:00","end":"12:00"},{"start":"13:00","end":"16:00"}]`)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, "09:00-12:00", slots[0].Label())
	})

	t.Run("invalid entries are dropped", func(t *testing.T) {
		slots, err := ParseTimeSlots(`[{"start":"09:00","end":"12:00"},{"start":"16:00","end":"13:00"},{"start":"","end":"12:00"}]`)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, "09:00-12:00", slots[0].Label())
	})

	t.Run("malformed json is a configuration error", func(t *testing.T) {
		slots, err := ParseTimeSlots(`{"start":"09:00"`)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Empty(t, slots)
	})

	t.Run("empty document means no slots", func(t *testing.T) {
		slots, err := ParseTimeSlots("  ")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestParseHolidays(t *testing.T) {
	assert.Equal(t, []string{"2024-12-25", "2024-12-26"}, ParseHolidays(" 2024-12-25, 2024-12-26 ,"))
	assert.Nil(t, ParseHolidays("  "))
}

func TestSettingsLookups(t *testing.T) {
	s := Defaults()
	s.HolidayDates = []string{"2024-12-25"}
	s.PickupLocations = []string{"Main St"}

	assert.True(t, s.IsHoliday("2024-12-25"))
	assert.False(t, s.IsHoliday("2024-12-24"))

	slot, ok := s.FindSlot("13:00-16:00")
	require.True(t, ok)
	assert.Equal(t, "13:00", slot.Start)

	_, ok = s.FindSlot("10:00-11:00")
	assert.False(t, ok)

	assert.True(t, s.HasPickupLocation("Main St"))
	assert.False(t, s.HasPickupLocation("Elm St"))
}
