package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/internal/schedule"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

const meetingColumns = `id, type, status, scheduled_start, scheduled_end, duration_minutes,
timezone, admin_id, guardian_id, teacher_id, student_ids, buffer_before_min, buffer_after_min,
quota_month_key, quota_student_keys, notes, created_at, updated_at`

// MeetingRepository manages committed bookings. It is the only writer of
// meeting rows in this engine.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository builds the repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// ListBlockingInRange returns meetings in a blocking status for the admin
// and type whose window overlaps [from, to).
func (r *MeetingRepository) ListBlockingInRange(ctx context.Context, adminID string, meetingType models.MeetingType, from, to time.Time) ([]models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings
WHERE admin_id = $1 AND type = $2 AND status = ANY($3)
AND scheduled_start < $5 AND scheduled_end > $4
ORDER BY scheduled_start ASC`, meetingColumns)

	statuses := make([]string, len(models.BlockingStatuses))
	for i, s := range models.BlockingStatuses {
		statuses[i] = string(s)
	}

	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, adminID, meetingType, pq.Array(statuses), from, to); err != nil {
		return nil, fmt.Errorf("list blocking meetings: %w", err)
	}
	return meetings, nil
}

// FindOverlapping returns the id of any non-cancelled meeting for the admin
// and type whose stored window overlaps the given interval, or "" if none.
// The caller passes the buffer-expanded request interval; stored bounds stay
// raw, matching the engine's one-sided buffer policy.
func (r *MeetingRepository) FindOverlapping(ctx context.Context, adminID string, meetingType models.MeetingType, window schedule.Interval) (string, error) {
	const query = `SELECT id FROM meetings
WHERE admin_id = $1 AND type = $2 AND status <> $3
AND scheduled_start < $5 AND scheduled_end > $4
ORDER BY scheduled_start ASC LIMIT 1`

	var id string
	err := r.db.GetContext(ctx, &id, query, adminID, meetingType, models.MeetingStatusCancelled, window.Start, window.End)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find overlapping meeting: %w", err)
	}
	return id, nil
}

// CountByQuotaKey counts non-cancelled meetings of the given type carrying
// the composite guardian/student/month quota key.
func (r *MeetingRepository) CountByQuotaKey(ctx context.Context, meetingType models.MeetingType, quotaKey string) (int, error) {
	const query = `SELECT COUNT(*) FROM meetings
WHERE type = $1 AND status <> $2 AND quota_student_keys @> ARRAY[$3]::text[]`

	var count int
	if err := r.db.GetContext(ctx, &count, query, meetingType, models.MeetingStatusCancelled, quotaKey); err != nil {
		return 0, fmt.Errorf("count quota meetings: %w", err)
	}
	return count, nil
}

// CreateScheduled persists a validated booking atomically. The transaction
// takes a per-admin advisory lock, re-checks the buffer-expanded window
// against non-cancelled meetings, then inserts. Two concurrent bookings for
// the same admin serialize on the lock; the loser observes the winner's row
// during the re-check and gets a BOOKING_CONFLICT instead of a double
// booking.
func (r *MeetingRepository) CreateScheduled(ctx context.Context, meeting *models.Meeting, guard schedule.Interval) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, meeting.AdminID); err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}

	const conflictQuery = `SELECT id FROM meetings
WHERE admin_id = $1 AND type = $2 AND status <> $3
AND scheduled_start < $5 AND scheduled_end > $4
ORDER BY scheduled_start ASC LIMIT 1`

	var collidingID string
	err = tx.GetContext(ctx, &collidingID, conflictQuery,
		meeting.AdminID, meeting.Type, models.MeetingStatusCancelled, guard.Start, guard.End)
	if err == nil {
		return appErrors.WithDetails(appErrors.ErrBookingConflict, map[string]interface{}{
			"conflict_meeting_id": collidingID,
		})
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("recheck booking conflict: %w", err)
	}

	now := time.Now().UTC()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	const insertQuery = `
INSERT INTO meetings (id, type, status, scheduled_start, scheduled_end, duration_minutes,
timezone, admin_id, guardian_id, teacher_id, student_ids, buffer_before_min, buffer_after_min,
quota_month_key, quota_student_keys, notes, created_at, updated_at)
VALUES (:id, :type, :status, :scheduled_start, :scheduled_end, :duration_minutes,
:timezone, :admin_id, :guardian_id, :teacher_id, :student_ids, :buffer_before_min, :buffer_after_min,
:quota_month_key, :quota_student_keys, :notes, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, meeting); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

// FindByID returns a meeting by id.
func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE id = $1`, meetingColumns)
	var meeting models.Meeting
	if err := r.db.GetContext(ctx, &meeting, query, id); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListUpcomingByAdmin returns blocking meetings starting in [from, to),
// soonest first. Used by the agenda export.
func (r *MeetingRepository) ListUpcomingByAdmin(ctx context.Context, adminID string, from, to time.Time) ([]models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings
WHERE admin_id = $1 AND status = ANY($2) AND scheduled_start >= $3 AND scheduled_start < $4
ORDER BY scheduled_start ASC`, meetingColumns)

	statuses := make([]string, len(models.BlockingStatuses))
	for i, s := range models.BlockingStatuses {
		statuses[i] = string(s)
	}

	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, adminID, pq.Array(statuses), from, to); err != nil {
		return nil, fmt.Errorf("list upcoming meetings: %w", err)
	}
	return meetings, nil
}
