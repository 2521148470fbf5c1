package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-meet-api/internal/models"
)

const vacationColumns = `id, name, message, starts_at, ends_at, active, created_by, created_at`

// VacationRepository manages organization-wide blackout windows.
type VacationRepository struct {
	db *sqlx.DB
}

// NewVacationRepository builds the repository.
func NewVacationRepository(db *sqlx.DB) *VacationRepository {
	return &VacationRepository{db: db}
}

// ListActive returns all active vacations, soonest first.
func (r *VacationRepository) ListActive(ctx context.Context) ([]models.SystemVacation, error) {
	query := fmt.Sprintf(`SELECT %s FROM system_vacations WHERE active = TRUE ORDER BY starts_at ASC`, vacationColumns)
	var vacations []models.SystemVacation
	if err := r.db.SelectContext(ctx, &vacations, query); err != nil {
		return nil, fmt.Errorf("list vacations: %w", err)
	}
	return vacations, nil
}

// ListActiveInRange returns active vacations overlapping [from, to).
func (r *VacationRepository) ListActiveInRange(ctx context.Context, from, to time.Time) ([]models.SystemVacation, error) {
	query := fmt.Sprintf(`SELECT %s FROM system_vacations
WHERE active = TRUE AND starts_at < $2 AND ends_at > $1 ORDER BY starts_at ASC`, vacationColumns)
	var vacations []models.SystemVacation
	if err := r.db.SelectContext(ctx, &vacations, query, from, to); err != nil {
		return nil, fmt.Errorf("list vacations in range: %w", err)
	}
	return vacations, nil
}

// Create inserts a new vacation window.
func (r *VacationRepository) Create(ctx context.Context, vacation *models.SystemVacation) error {
	if vacation.ID == "" {
		vacation.ID = uuid.NewString()
	}
	vacation.CreatedAt = time.Now().UTC()

	const query = `
INSERT INTO system_vacations (id, name, message, starts_at, ends_at, active, created_by, created_at)
VALUES (:id, :name, :message, :starts_at, :ends_at, :active, :created_by, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, vacation); err != nil {
		return fmt.Errorf("insert vacation: %w", err)
	}
	return nil
}

// Deactivate soft-disables a vacation window.
func (r *VacationRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE system_vacations SET active = FALSE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate vacation: %w", err)
	}
	return nil
}
