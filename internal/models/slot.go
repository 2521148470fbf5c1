package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AvailabilitySlot is a recurring weekly availability rule for one admin
// and one meeting type. Times are local wall-clock strings interpreted in
// the slot's own IANA timezone.
type AvailabilitySlot struct {
	ID            string      `db:"id" json:"id"`
	AdminID       string      `db:"admin_id" json:"admin_id"`
	MeetingType   MeetingType `db:"meeting_type" json:"meeting_type"`
	DayOfWeek     int         `db:"day_of_week" json:"day_of_week"`
	StartTime     string      `db:"start_time" json:"start_time"`
	EndTime       string      `db:"end_time" json:"end_time"`
	Timezone      string      `db:"timezone" json:"timezone"`
	Capacity      int         `db:"capacity" json:"capacity"`
	Priority      int         `db:"priority" json:"priority"`
	Active        bool        `db:"active" json:"active"`
	EffectiveFrom *time.Time  `db:"effective_from" json:"effective_from,omitempty"`
	EffectiveTo   *time.Time  `db:"effective_to" json:"effective_to,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// ParseClock converts an "HH:MM" wall-clock string into minutes since
// midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// ClockMinutes returns the slot bounds as minutes since midnight. The end
// must be strictly after the start.
func (s *AvailabilitySlot) ClockMinutes() (startMin, endMin int, err error) {
	startMin, err = ParseClock(s.StartTime)
	if err != nil {
		return 0, 0, err
	}
	endMin, err = ParseClock(s.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if endMin <= startMin {
		return 0, 0, fmt.Errorf("slot end %q must be after start %q", s.EndTime, s.StartTime)
	}
	return startMin, endMin, nil
}

// EffectiveOn reports whether the given local calendar date falls inside
// the slot's effective window. Open bounds are unrestricted.
func (s *AvailabilitySlot) EffectiveOn(localDate time.Time) bool {
	day := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, time.UTC)
	if s.EffectiveFrom != nil {
		from := s.EffectiveFrom.In(time.UTC)
		from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(from) {
			return false
		}
	}
	if s.EffectiveTo != nil {
		to := s.EffectiveTo.In(time.UTC)
		to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		if day.After(to) {
			return false
		}
	}
	return true
}
