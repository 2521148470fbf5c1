package dto

import "time"

// BookMeetingRequest is the payload for committing a booking. The start is
// a local wall-clock value interpreted in the provided timezone.
type BookMeetingRequest struct {
	AdminID     string   `json:"admin_id"`
	MeetingType string   `json:"meeting_type" validate:"required"`
	StartLocal  string   `json:"start_local" validate:"required"`
	Timezone    string   `json:"timezone" validate:"required"`
	StudentIDs  []string `json:"student_ids" validate:"omitempty,dive,required"`
	TeacherID   *string  `json:"teacher_id"`
	Notes       *string  `json:"notes"`
}

// StartLocalLayout is the wall-clock layout accepted for booking starts.
const StartLocalLayout = "2006-01-02T15:04"

// ArtifactHandle references the generated calendar artifacts for a booking.
type ArtifactHandle struct {
	ICSToken    string    `json:"ics_token"`
	ICSExpires  time.Time `json:"ics_expires"`
	GoogleLink  string    `json:"google_link"`
	OutlookLink string    `json:"outlook_link"`
}

// BookingResult is returned after a successful commit.
type BookingResult struct {
	MeetingID       string          `json:"meeting_id"`
	MeetingType     string          `json:"meeting_type"`
	Status          string          `json:"status"`
	ScheduledStart  time.Time       `json:"scheduled_start"`
	ScheduledEnd    time.Time       `json:"scheduled_end"`
	DurationMinutes int             `json:"duration_minutes"`
	Timezone        string          `json:"timezone"`
	AdminID         string          `json:"admin_id"`
	Artifacts       *ArtifactHandle `json:"artifacts,omitempty"`
}
