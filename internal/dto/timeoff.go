package dto

import "time"

// CreateTimeOffRequest declares a one-off unavailable window for the
// authenticated admin. Bounds are absolute UTC instants.
type CreateTimeOffRequest struct {
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	Timezone    string    `json:"timezone"`
	Description string    `json:"description"`
}

// CreateVacationRequest declares an organization-wide blackout window.
type CreateVacationRequest struct {
	Name     string    `json:"name" validate:"required"`
	Message  string    `json:"message"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
}
