package models

import (
	"time"

	"github.com/lib/pq"
)

// MeetingType enumerates the supported meeting categories.
type MeetingType string

const (
	MeetingTypeEvaluation  MeetingType = "evaluation"
	MeetingTypeFollowUp    MeetingType = "follow_up"
	MeetingTypeTeacherSync MeetingType = "teacher_sync"
)

// SupportedMeetingTypes lists every bookable type.
var SupportedMeetingTypes = []MeetingType{
	MeetingTypeEvaluation,
	MeetingTypeFollowUp,
	MeetingTypeTeacherSync,
}

// IsSupported reports whether the type is one of the known values.
func (t MeetingType) IsSupported() bool {
	for _, known := range SupportedMeetingTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MeetingStatus represents the lifecycle state of a committed booking.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusNoShow    MeetingStatus = "no_show"
)

// BlockingStatuses are the statuses that still occupy calendar time.
// A no-show is terminal but the reserved window stays blocked.
var BlockingStatuses = []MeetingStatus{MeetingStatusScheduled, MeetingStatusNoShow}

// Duration bounds enforced at commit time, in minutes.
const (
	MinMeetingDurationMinutes = 15
	MaxMeetingDurationMinutes = 240
)

// Meeting is a committed booking between an admin and a guardian.
type Meeting struct {
	ID              string         `db:"id" json:"id"`
	Type            MeetingType    `db:"type" json:"type"`
	Status          MeetingStatus  `db:"status" json:"status"`
	ScheduledStart  time.Time      `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd    time.Time      `db:"scheduled_end" json:"scheduled_end"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`
	Timezone        string         `db:"timezone" json:"timezone"`
	AdminID         string         `db:"admin_id" json:"admin_id"`
	GuardianID      string         `db:"guardian_id" json:"guardian_id"`
	TeacherID       *string        `db:"teacher_id" json:"teacher_id,omitempty"`
	StudentIDs      pq.StringArray `db:"student_ids" json:"student_ids"`
	BufferBeforeMin int            `db:"buffer_before_min" json:"buffer_before_min"`
	BufferAfterMin  int            `db:"buffer_after_min" json:"buffer_after_min"`
	QuotaMonthKey   string         `db:"quota_month_key" json:"quota_month_key"`
	QuotaStudentKey pq.StringArray `db:"quota_student_keys" json:"quota_student_keys"`
	Notes           *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// IsBlocking reports whether the meeting still occupies its window.
func (m *Meeting) IsBlocking() bool {
	for _, status := range BlockingStatuses {
		if m.Status == status {
			return true
		}
	}
	return false
}
