package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/models"
)

func mondaySlot() models.AvailabilitySlot {
	return models.AvailabilitySlot{
		ID:          "slot-1",
		AdminID:     "admin-1",
		MeetingType: models.MeetingTypeEvaluation,
		DayOfWeek:   1, // Monday
		StartTime:   "09:00",
		EndTime:     "12:00",
		Timezone:    "Asia/Jakarta",
		Capacity:    1,
		Active:      true,
	}
}

func TestMaterializeConvertsLocalClockToUTC(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// Monday 2024-05-06 in Jakarta (UTC+7).
	monday := time.Date(2024, 5, 6, 0, 0, 0, 0, loc)
	window, ok := Materialize(mondaySlot(), monday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 6, 2, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2024, 5, 6, 5, 0, 0, 0, time.UTC), window.End)
}

func TestMaterializeIsIdempotent(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Jakarta")
	monday := time.Date(2024, 5, 6, 0, 0, 0, 0, loc)

	first, ok1 := Materialize(mondaySlot(), monday)
	second, ok2 := Materialize(mondaySlot(), monday)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestMaterializeWrongWeekday(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Jakarta")
	tuesday := time.Date(2024, 5, 7, 0, 0, 0, 0, loc)
	_, ok := Materialize(mondaySlot(), tuesday)
	assert.False(t, ok)
}

func TestMaterializeWeekdayUsesSlotTimezone(t *testing.T) {
	// Sunday 23:30 in Tokyo is already Sunday 14:30 UTC, but a late slot in a
	// far-west zone crosses UTC midnight: Sunday 23:30 in Pago Pago (UTC-11)
	// is Monday 10:30 UTC. Matching against the UTC weekday would miss it.
	slot := models.AvailabilitySlot{
		DayOfWeek: 0, // Sunday
		StartTime: "23:30",
		EndTime:   "23:45",
		Timezone:  "Pacific/Pago_Pago",
		Active:    true,
	}
	loc, err := time.LoadLocation("Pacific/Pago_Pago")
	require.NoError(t, err)

	sunday := time.Date(2024, 5, 5, 0, 0, 0, 0, loc)
	window, ok := Materialize(slot, sunday)
	require.True(t, ok)
	assert.Equal(t, time.Monday, window.Start.UTC().Weekday())

	// The same instant seen from a naive UTC-day iteration belongs to Monday;
	// materializing with the slot's own zone still resolves it.
	_, ok = Materialize(slot, window.Start)
	assert.True(t, ok)
}

func TestMaterializeRespectsEffectiveBounds(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Jakarta")
	slot := mondaySlot()
	from := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	slot.EffectiveFrom = &from

	before := time.Date(2024, 5, 6, 0, 0, 0, 0, loc)
	_, ok := Materialize(slot, before)
	assert.False(t, ok)

	after := time.Date(2024, 5, 13, 0, 0, 0, 0, loc)
	_, ok = Materialize(slot, after)
	assert.True(t, ok)
}

func TestMaterializeInactiveSlot(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Jakarta")
	slot := mondaySlot()
	slot.Active = false
	_, ok := Materialize(slot, time.Date(2024, 5, 6, 0, 0, 0, 0, loc))
	assert.False(t, ok)
}

func TestCoversContainment(t *testing.T) {
	slot := mondaySlot()

	// 10:00-10:30 Jakarta on Monday = 03:00-03:30 UTC.
	start := time.Date(2024, 5, 6, 3, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 6, 3, 30, 0, 0, time.UTC)
	assert.True(t, Covers(slot, start, end))

	// Ends past the slot's 12:00 local close.
	lateEnd := time.Date(2024, 5, 6, 5, 30, 0, 0, time.UTC)
	assert.False(t, Covers(slot, start, lateEnd))

	// Monday in Jakarta, but 03:00 local is before the slot's 09:00 open.
	earlyMonday := time.Date(2024, 5, 5, 20, 0, 0, 0, time.UTC)
	assert.False(t, Covers(slot, earlyMonday, earlyMonday.Add(30*time.Minute)))

	// Right clock range, wrong weekday: Tuesday 09:30 Jakarta.
	tuesday := time.Date(2024, 5, 7, 2, 30, 0, 0, time.UTC)
	assert.False(t, Covers(slot, tuesday, tuesday.Add(30*time.Minute)))
}

func TestDaysBetween(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Jakarta")
	from := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 8, 1, 0, 0, 0, time.UTC)

	days := DaysBetween(from, to, loc)
	require.Len(t, days, 3)
	for _, day := range days {
		assert.Equal(t, 0, day.Hour())
		assert.Equal(t, loc, day.Location())
	}
}

func TestMonthKeyUsesLocation(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Jakarta")
	// 2024-05-31 19:00 UTC is already 2024-06-01 in Jakarta.
	instant := time.Date(2024, 5, 31, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06", MonthKey(instant, loc))
	assert.Equal(t, "2024-05", MonthKey(instant, time.UTC))
}

func TestStudentQuotaKey(t *testing.T) {
	assert.Equal(t, "g-1:s-1:2024-05", StudentQuotaKey("g-1", "s-1", "2024-05"))
}
