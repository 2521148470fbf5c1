package dto

import "time"

// AvailabilityRequest narrows an availability computation.
type AvailabilityRequest struct {
	AdminID     string     `json:"admin_id"`
	MeetingType string     `json:"meeting_type" validate:"required"`
	RangeStart  *time.Time `json:"range_start"`
	RangeEnd    *time.Time `json:"range_end"`
	ViewerTZ    string     `json:"viewer_timezone"`
	MinDuration int        `json:"min_duration_minutes" validate:"omitempty,min=0"`
}

// AvailabilityWindow is a bookable free segment. UTC bounds are
// authoritative; the local bounds are rendered in the viewer timezone.
type AvailabilityWindow struct {
	StartUTC   time.Time `json:"start_utc"`
	EndUTC     time.Time `json:"end_utc"`
	StartLocal string    `json:"start_local"`
	EndLocal   string    `json:"end_local"`
	Timezone   string    `json:"timezone"`
}
