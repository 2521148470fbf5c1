package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/models"
)

func newSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "admin_id", "meeting_type", "day_of_week", "start_time", "end_time",
		"timezone", "capacity", "priority", "active", "effective_from", "effective_to",
		"created_at", "updated_at",
	})
}

func TestSlotRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM availability_slots").
		WithArgs("admin-1", string(models.MeetingTypeEvaluation)).
		WillReturnRows(slotRows().
			AddRow("slot-1", "admin-1", "evaluation", 1, "09:00", "12:00", "Asia/Jakarta", 1, 0, true, nil, nil, now, now))

	slots, err := repo.ListActive(context.Background(), "admin-1", models.MeetingTypeEvaluation)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "slot-1", slots[0].ID)
	assert.Equal(t, 1, slots[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_slots")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slot := &models.AvailabilitySlot{
		AdminID:     "admin-1",
		MeetingType: models.MeetingTypeFollowUp,
		DayOfWeek:   3,
		StartTime:   "13:00",
		EndTime:     "16:00",
		Timezone:    "Asia/Jakarta",
		Capacity:    1,
		Active:      true,
	}
	require.NoError(t, repo.Create(context.Background(), slot))
	assert.NotEmpty(t, slot.ID)
	assert.False(t, slot.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE availability_slots SET active = FALSE")).
		WithArgs("slot-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "slot-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
