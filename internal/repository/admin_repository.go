package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-meet-api/internal/models"
)

const adminColumns = `id, name, email, timezone, meetings_enabled,
buffer_evaluation_min, buffer_follow_up_min, buffer_teacher_sync_min,
duration_evaluation_min, duration_follow_up_min, duration_teacher_sync_min,
created_at, updated_at`

// AdminRepository reads admin scheduling settings.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository builds the repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByID returns the admin with the given id.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE id = $1`, adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindFirstEnabled returns the meetings-enabled admin with the earliest
// creation time. Used as the deterministic fallback when no admin is named.
func (r *AdminRepository) FindFirstEnabled(ctx context.Context) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE meetings_enabled = TRUE ORDER BY created_at ASC, id ASC LIMIT 1`, adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query); err != nil {
		return nil, err
	}
	return &admin, nil
}
