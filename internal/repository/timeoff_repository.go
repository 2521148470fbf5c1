package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-meet-api/internal/models"
)

const timeOffColumns = `id, admin_id, starts_at, ends_at, timezone, description, active, created_at`

// TimeOffRepository manages one-off admin unavailability windows.
type TimeOffRepository struct {
	db *sqlx.DB
}

// NewTimeOffRepository builds the repository.
func NewTimeOffRepository(db *sqlx.DB) *TimeOffRepository {
	return &TimeOffRepository{db: db}
}

// FindByID returns a time-off record.
func (r *TimeOffRepository) FindByID(ctx context.Context, id string) (*models.UnavailablePeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM unavailable_periods WHERE id = $1`, timeOffColumns)
	var period models.UnavailablePeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// ListByAdmin returns all active time-off windows for an admin, newest first.
func (r *TimeOffRepository) ListByAdmin(ctx context.Context, adminID string) ([]models.UnavailablePeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM unavailable_periods
WHERE admin_id = $1 AND active = TRUE ORDER BY starts_at DESC`, timeOffColumns)
	var periods []models.UnavailablePeriod
	if err := r.db.SelectContext(ctx, &periods, query, adminID); err != nil {
		return nil, fmt.Errorf("list time off: %w", err)
	}
	return periods, nil
}

// ListActiveInRange returns active windows overlapping [from, to).
func (r *TimeOffRepository) ListActiveInRange(ctx context.Context, adminID string, from, to time.Time) ([]models.UnavailablePeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM unavailable_periods
WHERE admin_id = $1 AND active = TRUE AND starts_at < $3 AND ends_at > $2
ORDER BY starts_at ASC`, timeOffColumns)
	var periods []models.UnavailablePeriod
	if err := r.db.SelectContext(ctx, &periods, query, adminID, from, to); err != nil {
		return nil, fmt.Errorf("list time off in range: %w", err)
	}
	return periods, nil
}

// Create inserts a new time-off window.
func (r *TimeOffRepository) Create(ctx context.Context, period *models.UnavailablePeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	period.CreatedAt = time.Now().UTC()

	const query = `
INSERT INTO unavailable_periods (id, admin_id, starts_at, ends_at, timezone, description, active, created_at)
VALUES (:id, :admin_id, :starts_at, :ends_at, :timezone, :description, :active, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("insert time off: %w", err)
	}
	return nil
}

// Deactivate soft-disables a time-off window.
func (r *TimeOffRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE unavailable_periods SET active = FALSE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate time off: %w", err)
	}
	return nil
}
