package dto

import "time"

// CreateSlotRequest defines a new recurring availability rule.
type CreateSlotRequest struct {
	MeetingType   string     `json:"meeting_type" validate:"required"`
	DayOfWeek     int        `json:"day_of_week" validate:"min=0,max=6"`
	StartTime     string     `json:"start_time" validate:"required"`
	EndTime       string     `json:"end_time" validate:"required"`
	Timezone      string     `json:"timezone" validate:"required"`
	Capacity      int        `json:"capacity" validate:"min=1,max=5"`
	Priority      int        `json:"priority" validate:"min=0"`
	EffectiveFrom *time.Time `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
}

// UpdateSlotRequest rewrites an existing rule. The active flag allows
// soft-disabling without deleting.
type UpdateSlotRequest struct {
	DayOfWeek     int        `json:"day_of_week" validate:"min=0,max=6"`
	StartTime     string     `json:"start_time" validate:"required"`
	EndTime       string     `json:"end_time" validate:"required"`
	Timezone      string     `json:"timezone" validate:"required"`
	Capacity      int        `json:"capacity" validate:"min=1,max=5"`
	Priority      int        `json:"priority" validate:"min=0"`
	Active        bool       `json:"active"`
	EffectiveFrom *time.Time `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
}
