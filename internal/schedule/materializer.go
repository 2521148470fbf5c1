package schedule

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-meet-api/internal/models"
)

// Materialize converts a recurring slot into the concrete UTC window it
// produces on the calendar day containing ref, evaluated in the slot's own
// timezone. The boolean is false when the slot does not contribute a window
// for that day: wrong weekday, inactive, outside the effective bounds, or an
// unparseable definition.
//
// Day-of-week matching must happen in the slot timezone. A slot starting at
// 23:30 local time can fall on a different UTC calendar day than its
// configured weekday.
func Materialize(slot models.AvailabilitySlot, ref time.Time) (Interval, bool) {
	if !slot.Active {
		return Interval{}, false
	}
	loc, err := time.LoadLocation(slot.Timezone)
	if err != nil {
		return Interval{}, false
	}

	local := ref.In(loc)
	if int(local.Weekday()) != slot.DayOfWeek {
		return Interval{}, false
	}
	if !slot.EffectiveOn(local) {
		return Interval{}, false
	}

	startMin, endMin, err := slot.ClockMinutes()
	if err != nil {
		return Interval{}, false
	}

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	window := Interval{
		Start: dayStart.Add(time.Duration(startMin) * time.Minute).UTC(),
		End:   dayStart.Add(time.Duration(endMin) * time.Minute).UTC(),
	}
	if window.IsEmpty() {
		return Interval{}, false
	}
	return window, true
}

// Covers reports whether the slot contains the requested UTC interval when
// the request bounds are expressed in the slot's timezone. Both bounds must
// land on the slot's weekday and inside its clock range; comparison is at
// minute granularity, no materialization needed.
func Covers(slot models.AvailabilitySlot, start, end time.Time) bool {
	if !slot.Active || !end.After(start) {
		return false
	}
	loc, err := time.LoadLocation(slot.Timezone)
	if err != nil {
		return false
	}
	startMin, endMin, err := slot.ClockMinutes()
	if err != nil {
		return false
	}

	localStart := start.In(loc)
	localEnd := end.In(loc)
	if int(localStart.Weekday()) != slot.DayOfWeek || int(localEnd.Weekday()) != slot.DayOfWeek {
		return false
	}
	if !slot.EffectiveOn(localStart) {
		return false
	}

	reqStart := localStart.Hour()*60 + localStart.Minute()
	reqEnd := localEnd.Hour()*60 + localEnd.Minute()
	return reqStart >= startMin && reqEnd <= endMin && reqStart < reqEnd
}

// DaysBetween iterates the calendar days in [from, to] as seen in loc,
// yielding the local midnight of each day. Both bounds are inclusive at
// day granularity.
func DaysBetween(from, to time.Time, loc *time.Location) []time.Time {
	localFrom := from.In(loc)
	localTo := to.In(loc)

	day := time.Date(localFrom.Year(), localFrom.Month(), localFrom.Day(), 0, 0, 0, 0, loc)
	last := time.Date(localTo.Year(), localTo.Month(), localTo.Day(), 0, 0, 0, 0, loc)

	var days []time.Time
	for !day.After(last) {
		days = append(days, day)
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// MonthKey renders the calendar month of t in loc as "YYYY-MM".
func MonthKey(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return fmt.Sprintf("%04d-%02d", local.Year(), int(local.Month()))
}

// StudentQuotaKey derives the composite key used to count follow-up
// bookings for a guardian/student pair within a month.
func StudentQuotaKey(guardianID, studentID, monthKey string) string {
	return fmt.Sprintf("%s:%s:%s", guardianID, studentID, monthKey)
}
