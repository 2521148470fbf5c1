package models

import "time"

// Admin holds the scheduling settings for a bookable staff member.
// Per-type buffers and default durations are stored as explicit columns;
// the evaluation duration is per participating student.
type Admin struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	Timezone        string    `db:"timezone" json:"timezone"`
	MeetingsEnabled bool      `db:"meetings_enabled" json:"meetings_enabled"`

	BufferEvaluationMin  int `db:"buffer_evaluation_min" json:"buffer_evaluation_min"`
	BufferFollowUpMin    int `db:"buffer_follow_up_min" json:"buffer_follow_up_min"`
	BufferTeacherSyncMin int `db:"buffer_teacher_sync_min" json:"buffer_teacher_sync_min"`

	DurationEvaluationMin  int `db:"duration_evaluation_min" json:"duration_evaluation_min"`
	DurationFollowUpMin    int `db:"duration_follow_up_min" json:"duration_follow_up_min"`
	DurationTeacherSyncMin int `db:"duration_teacher_sync_min" json:"duration_teacher_sync_min"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BufferMinutes returns the symmetric buffer applied around meetings of the
// given type.
func (a *Admin) BufferMinutes(t MeetingType) int {
	switch t {
	case MeetingTypeEvaluation:
		return a.BufferEvaluationMin
	case MeetingTypeFollowUp:
		return a.BufferFollowUpMin
	case MeetingTypeTeacherSync:
		return a.BufferTeacherSyncMin
	default:
		return 0
	}
}

// DefaultDurationMinutes returns the baseline duration for the given type.
// For evaluations this is the per-student duration before scaling.
func (a *Admin) DefaultDurationMinutes(t MeetingType) int {
	switch t {
	case MeetingTypeEvaluation:
		return a.DurationEvaluationMin
	case MeetingTypeFollowUp:
		return a.DurationFollowUpMin
	case MeetingTypeTeacherSync:
		return a.DurationTeacherSyncMin
	default:
		return 0
	}
}
