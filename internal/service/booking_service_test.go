package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/internal/schedule"
	"github.com/noah-isme/sma-meet-api/pkg/config"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type stubAdminResolver struct {
	admin *models.Admin
	err   error
}

func (s *stubAdminResolver) Resolve(ctx context.Context, adminID string) (*models.Admin, error) {
	return s.admin, s.err
}

type stubSlotReader struct {
	slots []models.AvailabilitySlot
	err   error
}

func (s *stubSlotReader) ListActive(ctx context.Context, adminID string, meetingType models.MeetingType) ([]models.AvailabilitySlot, error) {
	return s.slots, s.err
}

type stubMeetingStore struct {
	overlapID   string
	overlapWith *schedule.Interval
	overlapErr  error
	quotaCount  int
	quotaErr    error
	createErr   error
	created     *models.Meeting
	guardPassed schedule.Interval
	quotaKeys   []string
}

func (s *stubMeetingStore) FindOverlapping(ctx context.Context, adminID string, meetingType models.MeetingType, window schedule.Interval) (string, error) {
	s.guardPassed = window
	if s.overlapWith != nil && !window.Overlaps(*s.overlapWith) {
		return "", s.overlapErr
	}
	return s.overlapID, s.overlapErr
}

func (s *stubMeetingStore) CountByQuotaKey(ctx context.Context, meetingType models.MeetingType, quotaKey string) (int, error) {
	s.quotaKeys = append(s.quotaKeys, quotaKey)
	return s.quotaCount, s.quotaErr
}

func (s *stubMeetingStore) CreateScheduled(ctx context.Context, meeting *models.Meeting, guard schedule.Interval) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = meeting
	s.guardPassed = guard
	return nil
}

type stubVacationReader struct {
	vacations []models.SystemVacation
	err       error
}

func (s *stubVacationReader) ListActiveInRange(ctx context.Context, from, to time.Time) ([]models.SystemVacation, error) {
	return s.vacations, s.err
}

type stubTimeOffReader struct {
	periods []models.UnavailablePeriod
	err     error
}

func (s *stubTimeOffReader) ListActiveInRange(ctx context.Context, adminID string, from, to time.Time) ([]models.UnavailablePeriod, error) {
	return s.periods, s.err
}

func testAdmin() *models.Admin {
	return &models.Admin{
		ID:                     "admin-1",
		Timezone:               "Asia/Jakarta",
		MeetingsEnabled:        true,
		BufferEvaluationMin:    10,
		BufferFollowUpMin:      10,
		DurationEvaluationMin:  45,
		DurationFollowUpMin:    30,
		DurationTeacherSyncMin: 30,
	}
}

// Monday 09:00-12:00 in Jakarta, i.e. 02:00-05:00 UTC.
func mondaySlot() models.AvailabilitySlot {
	return models.AvailabilitySlot{
		ID:          "slot-1",
		AdminID:     "admin-1",
		MeetingType: models.MeetingTypeFollowUp,
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "12:00",
		Timezone:    "Asia/Jakarta",
		Capacity:    1,
		Active:      true,
	}
}

func newBookingFixture(t *testing.T) (*BookingService, *stubMeetingStore) {
	t.Helper()
	store := &stubMeetingStore{}
	svc := NewBookingService(
		&stubAdminResolver{admin: testAdmin()},
		&stubSlotReader{slots: []models.AvailabilitySlot{mondaySlot()}},
		store,
		&stubVacationReader{},
		&stubTimeOffReader{},
		nil, nil, nil, nil,
		config.BookingConfig{
			DefaultLookaheadDays: 21,
			MaxLookaheadDays:     35,
			MinDurationFloorMin:  15,
			MaxDurationMin:       240,
			FollowUpMonthlyQuota: 1,
			DefaultTimezone:      "UTC",
		},
		nil, nil,
	)
	// 2026-08-31 is a Monday.
	svc.WithClock(func() time.Time {
		return time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	})
	return svc, store
}

func followUpRequest() dto.BookMeetingRequest {
	return dto.BookMeetingRequest{
		AdminID:     "admin-1",
		MeetingType: "follow_up",
		StartLocal:  "2026-08-31T09:00",
		Timezone:    "Asia/Jakarta",
		StudentIDs:  []string{"student-1"},
	}
}

func TestBookingServiceBooksInsideSlot(t *testing.T) {
	svc, store := newBookingFixture(t)

	result, err := svc.Book(context.Background(), followUpRequest(), "guardian-1")

	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, store.created.ID, result.MeetingID)
	assert.Equal(t, "follow_up", result.MeetingType)
	assert.Equal(t, "scheduled", result.Status)
	assert.Equal(t, 30, result.DurationMinutes)

	// 09:00 Jakarta is 02:00 UTC; stored bounds stay raw.
	assert.Equal(t, time.Date(2026, 8, 31, 2, 0, 0, 0, time.UTC), store.created.ScheduledStart)
	assert.Equal(t, time.Date(2026, 8, 31, 2, 30, 0, 0, time.UTC), store.created.ScheduledEnd)
	assert.Equal(t, 10, store.created.BufferBeforeMin)
	assert.Equal(t, "2026-08", store.created.QuotaMonthKey)
	assert.Equal(t, []string{"guardian-1:student-1:2026-08"}, []string(store.created.QuotaStudentKey))

	// The conflict guard carries the buffer on both sides.
	assert.Equal(t, time.Date(2026, 8, 31, 1, 50, 0, 0, time.UTC), store.guardPassed.Start)
	assert.Equal(t, time.Date(2026, 8, 31, 2, 40, 0, 0, time.UTC), store.guardPassed.End)
}

func TestBookingServiceRejectsUnsupportedType(t *testing.T) {
	svc, _ := newBookingFixture(t)
	req := followUpRequest()
	req.MeetingType = "office_hours"

	_, err := svc.Book(context.Background(), req, "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedMeetingType.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceRejectsOutsideAvailability(t *testing.T) {
	svc, store := newBookingFixture(t)
	req := followUpRequest()
	req.StartLocal = "2026-08-31T13:00"

	_, err := svc.Book(context.Background(), req, "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOutsideAvailability.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestBookingServiceRejectsWrongWeekday(t *testing.T) {
	svc, _ := newBookingFixture(t)
	req := followUpRequest()
	// 2026-09-01 is a Tuesday.
	req.StartLocal = "2026-09-01T09:00"

	_, err := svc.Book(context.Background(), req, "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOutsideAvailability.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceReportsConflictWithMeetingID(t *testing.T) {
	svc, store := newBookingFixture(t)
	store.overlapID = "meeting-existing"

	_, err := svc.Book(context.Background(), followUpRequest(), "guardian-1")

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBookingConflict.Code, appErr.Code)
	assert.Equal(t, "meeting-existing", appErr.Details["conflict_meeting_id"])
	assert.Nil(t, store.created)
}

func TestBookingServiceBufferAdjacency(t *testing.T) {
	// Existing meeting 09:00-09:30 Jakarta (02:00-02:30 UTC) with a 10-minute
	// buffer on each side. The guard window is half-open, so a start exactly
	// at 09:40 touches the buffer edge without conflicting; 09:35 lands
	// inside it.
	existing := schedule.Interval{
		Start: time.Date(2026, 8, 31, 2, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 31, 2, 30, 0, 0, time.UTC),
	}

	t.Run("start just past buffer succeeds", func(t *testing.T) {
		svc, store := newBookingFixture(t)
		store.overlapID = "meeting-existing"
		store.overlapWith = &existing

		req := followUpRequest()
		req.StartLocal = "2026-08-31T09:40"

		result, err := svc.Book(context.Background(), req, "guardian-1")

		require.NoError(t, err)
		assert.NotEmpty(t, result.MeetingID)
		assert.Equal(t, time.Date(2026, 8, 31, 2, 30, 0, 0, time.UTC), store.guardPassed.Start)
	})

	t.Run("start inside buffer conflicts", func(t *testing.T) {
		svc, store := newBookingFixture(t)
		store.overlapID = "meeting-existing"
		store.overlapWith = &existing

		req := followUpRequest()
		req.StartLocal = "2026-08-31T09:35"

		_, err := svc.Book(context.Background(), req, "guardian-1")

		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrBookingConflict.Code, appErr.Code)
		assert.Nil(t, store.created)
	})
}

func TestBookingServiceBlockedByVacation(t *testing.T) {
	svc, store := newBookingFixture(t)
	vacations := &stubVacationReader{vacations: []models.SystemVacation{{ID: "vac-1", Name: "Semester break"}}}
	svc.vacations = vacations

	_, err := svc.Book(context.Background(), followUpRequest(), "guardian-1")

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBlockedByVacation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Semester break")
	assert.Nil(t, store.created)
}

func TestBookingServiceBlockedByTimeOff(t *testing.T) {
	svc, store := newBookingFixture(t)
	svc.timeOff = &stubTimeOffReader{periods: []models.UnavailablePeriod{{ID: "off-1"}}}

	_, err := svc.Book(context.Background(), followUpRequest(), "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBlockedByTimeOff.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestBookingServiceEnforcesFollowUpQuota(t *testing.T) {
	svc, store := newBookingFixture(t)
	store.quotaCount = 1

	_, err := svc.Book(context.Background(), followUpRequest(), "guardian-1")

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrQuotaExceeded.Code, appErr.Code)
	assert.Equal(t, "student-1", appErr.Details["student_id"])
	assert.Equal(t, "2026-08", appErr.Details["month"])
	assert.Equal(t, []string{"guardian-1:student-1:2026-08"}, store.quotaKeys)
	assert.Nil(t, store.created)
}

func TestBookingServiceQuotaIsPerStudentAndMonth(t *testing.T) {
	svc, store := newBookingFixture(t)
	store.quotaCount = 0

	// Same guardian, different student: the quota key differs, so the
	// count stays below the cap and the booking goes through.
	req := followUpRequest()
	req.StudentIDs = []string{"student-2"}

	_, err := svc.Book(context.Background(), req, "guardian-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"guardian-1:student-2:2026-08"}, store.quotaKeys)
}

func TestBookingServiceRequiresStudentForFollowUp(t *testing.T) {
	svc, _ := newBookingFixture(t)
	req := followUpRequest()
	req.StudentIDs = nil

	_, err := svc.Book(context.Background(), req, "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceRejectsDisabledAdmin(t *testing.T) {
	svc, _ := newBookingFixture(t)
	admin := testAdmin()
	admin.MeetingsEnabled = false
	svc.resolver = &stubAdminResolver{admin: admin}

	_, err := svc.Book(context.Background(), followUpRequest(), "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMeetingsDisabled.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceRejectsPastStart(t *testing.T) {
	svc, _ := newBookingFixture(t)
	req := followUpRequest()
	req.StartLocal = "2026-08-24T09:00"

	_, err := svc.Book(context.Background(), req, "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceScalesEvaluationDurationPerStudent(t *testing.T) {
	svc, store := newBookingFixture(t)
	slot := mondaySlot()
	slot.MeetingType = models.MeetingTypeEvaluation
	svc.slots = &stubSlotReader{slots: []models.AvailabilitySlot{slot}}

	req := followUpRequest()
	req.MeetingType = "evaluation"
	req.StudentIDs = []string{"student-1", "student-2"}

	result, err := svc.Book(context.Background(), req, "guardian-1")

	require.NoError(t, err)
	assert.Equal(t, 90, result.DurationMinutes)
	assert.Equal(t, time.Date(2026, 8, 31, 3, 30, 0, 0, time.UTC), store.created.ScheduledEnd)
}

func TestBookingServiceRejectsOverlongDuration(t *testing.T) {
	svc, _ := newBookingFixture(t)
	admin := testAdmin()
	admin.DurationEvaluationMin = 60
	svc.resolver = &stubAdminResolver{admin: admin}
	slot := mondaySlot()
	slot.MeetingType = models.MeetingTypeEvaluation
	svc.slots = &stubSlotReader{slots: []models.AvailabilitySlot{slot}}

	req := followUpRequest()
	req.MeetingType = "evaluation"
	req.StudentIDs = []string{"s1", "s2", "s3", "s4", "s5"}

	_, err := svc.Book(context.Background(), req, "guardian-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
