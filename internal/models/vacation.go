package models

import "time"

// SystemVacation is an organization-wide blackout window that blocks every
// admin's availability uniformly (public holidays, closures).
type SystemVacation struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Message   string    `db:"message" json:"message"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	Active    bool      `db:"active" json:"active"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
