package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-meet-api/internal/models"
)

const slotColumns = `id, admin_id, meeting_type, day_of_week, start_time, end_time,
timezone, capacity, priority, active, effective_from, effective_to, created_at, updated_at`

// SlotRepository manages recurring weekly availability slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository builds the repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// FindByID returns a slot regardless of its active flag.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots WHERE id = $1`, slotColumns)
	var slot models.AvailabilitySlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListActive returns the active slots for an admin and meeting type ordered
// by weekday and start time.
func (r *SlotRepository) ListActive(ctx context.Context, adminID string, meetingType models.MeetingType) ([]models.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots
WHERE admin_id = $1 AND meeting_type = $2 AND active = TRUE
ORDER BY day_of_week ASC, start_time ASC`, slotColumns)
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, adminID, meetingType); err != nil {
		return nil, fmt.Errorf("list active slots: %w", err)
	}
	return slots, nil
}

// ListActiveByDay returns active sibling slots sharing an (admin, type, day)
// tuple; used for overlap checks before accepting slot mutations.
func (r *SlotRepository) ListActiveByDay(ctx context.Context, adminID string, meetingType models.MeetingType, dayOfWeek int) ([]models.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots
WHERE admin_id = $1 AND meeting_type = $2 AND day_of_week = $3 AND active = TRUE
ORDER BY start_time ASC`, slotColumns)
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, adminID, meetingType, dayOfWeek); err != nil {
		return nil, fmt.Errorf("list sibling slots: %w", err)
	}
	return slots, nil
}

// ListByAdmin returns all slots for an admin, active or not.
func (r *SlotRepository) ListByAdmin(ctx context.Context, adminID string) ([]models.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots
WHERE admin_id = $1 ORDER BY meeting_type ASC, day_of_week ASC, start_time ASC`, slotColumns)
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, adminID); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// Create inserts a new slot.
func (r *SlotRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	now := time.Now().UTC()
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	slot.CreatedAt = now
	slot.UpdatedAt = now

	const query = `
INSERT INTO availability_slots (id, admin_id, meeting_type, day_of_week, start_time, end_time,
timezone, capacity, priority, active, effective_from, effective_to, created_at, updated_at)
VALUES (:id, :admin_id, :meeting_type, :day_of_week, :start_time, :end_time,
:timezone, :capacity, :priority, :active, :effective_from, :effective_to, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an existing slot.
func (r *SlotRepository) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	slot.UpdatedAt = time.Now().UTC()

	const query = `
UPDATE availability_slots
SET day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time,
    timezone = :timezone, capacity = :capacity, priority = :priority, active = :active,
    effective_from = :effective_from, effective_to = :effective_to, updated_at = :updated_at
WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	return nil
}

// Deactivate soft-disables a slot. Slots are never hard-deleted while
// referenced by committed meetings.
func (r *SlotRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE availability_slots SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate slot: %w", err)
	}
	return nil
}
