package models

import "time"

// UnavailablePeriod is a one-off absolute-time override blocking a single
// admin's calendar ("admin time off"). The timezone is display-only; the
// bounds are UTC instants.
type UnavailablePeriod struct {
	ID          string    `db:"id" json:"id"`
	AdminID     string    `db:"admin_id" json:"admin_id"`
	StartsAt    time.Time `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time `db:"ends_at" json:"ends_at"`
	Timezone    string    `db:"timezone" json:"timezone"`
	Description string    `db:"description" json:"description"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
