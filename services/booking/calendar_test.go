package booking

import (
	"testing"

	"booked/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsFullWorkingDay(t *testing.T) {
	slots, err := GenerateSlots("09:00", "17:00", 30)
	require.NoError(t, err)

	// 8 hours at 30-minute steps, end exclusive.
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "09:30", slots[1])
	assert.Equal(t, "16:30", slots[15])
}

func TestGenerateSlotsIsDeterministic(t *testing.T) {
	first, err := GenerateSlots("09:00", "17:00", 30)
	require.NoError(t, err)
	second, err := GenerateSlots("09:00", "17:00", 30)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateSlotsUnevenInterval(t *testing.T) {
	slots, err := GenerateSlots("09:00", "10:00", 45)
	require.NoError(t, err)
	// 09:45 starts inside the range even though the next step would not.
	assert.Equal(t, []string{"09:00", "09:45"}, slots)
}

func TestGenerateSlotsInvalidRanges(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		interval int
	}{
		{"end before start", "17:00", "09:00", 30},
		{"end equals start", "09:00", "09:00", 30},
		{"zero interval", "09:00", "17:00", 0},
		{"negative interval", "09:00", "17:00", -15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GenerateSlots(tc.start, tc.end, tc.interval)
			var rangeErr *InvalidRangeError
			require.ErrorAs(t, err, &rangeErr)
		})
	}
}

func TestGenerateSlotsMalformedTimes(t *testing.T) {
	for _, bad := range []string{"9am", "25:00", "09:75", "0900", ""} {
		_, err := GenerateSlots(bad, "17:00", 30)
		assert.Error(t, err, "start %q", bad)
	}
}

func TestMinutesFromMidnight(t *testing.T) {
	m, err := MinutesFromMidnight("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = MinutesFromMidnight("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = MinutesFromMidnight("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)
}

func TestFormatMinutesRoundTrips(t *testing.T) {
	for _, s := range []string{"00:00", "09:00", "16:30", "23:59"} {
		m, err := MinutesFromMidnight(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatMinutes(m))
	}
}

func TestEnsureSlotReturnsExisting(t *testing.T) {
	day := &models.DayAvailability{
		ProfessionalID: "P1",
		Date:           "2025-06-10",
		Slots: []models.Slot{
			{Time: "09:00", Available: false},
		},
	}

	slot := EnsureSlot(day, "09:00", true)
	require.NotNil(t, slot)
	// The existing record wins over the default.
	assert.False(t, slot.Available)
	assert.Len(t, day.Slots, 1)
}

func TestEnsureSlotAppendsWithDefault(t *testing.T) {
	day := &models.DayAvailability{ProfessionalID: "P1", Date: "2025-06-10"}

	slot := EnsureSlot(day, "10:00", true)
	require.NotNil(t, slot)
	assert.True(t, slot.Available)
	assert.Len(t, day.Slots, 1)

	// Repeat call is idempotent.
	again := EnsureSlot(day, "10:00", false)
	assert.True(t, again.Available)
	assert.Len(t, day.Slots, 1)
}
