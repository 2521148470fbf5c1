package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/internal/schedule"
	"github.com/noah-isme/sma-meet-api/pkg/config"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type meetingStore interface {
	FindOverlapping(ctx context.Context, adminID string, meetingType models.MeetingType, window schedule.Interval) (string, error)
	CountByQuotaKey(ctx context.Context, meetingType models.MeetingType, quotaKey string) (int, error)
	CreateScheduled(ctx context.Context, meeting *models.Meeting, guard schedule.Interval) error
}

type artifactBuilder interface {
	Generate(ctx context.Context, meeting *models.Meeting, admin *models.Admin) (*dto.ArtifactHandle, error)
}

type bookingNotifier interface {
	EnqueueBooked(meeting *models.Meeting, artifacts *dto.ArtifactHandle) error
}

type cacheInvalidator interface {
	InvalidateAdmin(ctx context.Context, adminID string)
}

type bookingMetrics interface {
	RecordBooking(meetingType string)
	RecordBookingFailure(code string)
}

// BookingService validates and commits booking requests against every
// blocking source, buffers and quotas.
type BookingService struct {
	resolver  AdminResolver
	slots     slotReader
	meetings  meetingStore
	vacations vacationRangeReader
	timeOff   timeOffRangeReader
	artifacts artifactBuilder
	notifier  bookingNotifier
	cache     cacheInvalidator
	metrics   bookingMetrics
	booking   config.BookingConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService wires the booking path. artifacts, notifier, cache and
// metrics may be nil.
func NewBookingService(
	resolver AdminResolver,
	slots slotReader,
	meetings meetingStore,
	vacations vacationRangeReader,
	timeOff timeOffRangeReader,
	artifacts artifactBuilder,
	notifier bookingNotifier,
	cache cacheInvalidator,
	metrics bookingMetrics,
	booking config.BookingConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		resolver:  resolver,
		slots:     slots,
		meetings:  meetings,
		vacations: vacations,
		timeOff:   timeOff,
		artifacts: artifacts,
		notifier:  notifier,
		cache:     cache,
		metrics:   metrics,
		booking:   booking,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Book validates the request against slot coverage, meeting conflicts,
// vacations, time off and the monthly follow-up quota, then commits the
// meeting atomically. Validation failures surface unchanged; the commit is
// never blindly retried.
func (s *BookingService) Book(ctx context.Context, req dto.BookMeetingRequest, guardianID string) (*dto.BookingResult, error) {
	result, err := s.book(ctx, req, guardianID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordBookingFailure(appErrors.FromError(err).Code)
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordBooking(result.MeetingType)
	}
	return result, nil
}

func (s *BookingService) book(ctx context.Context, req dto.BookMeetingRequest, guardianID string) (*dto.BookingResult, error) {
	if guardianID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	meetingType := models.MeetingType(req.MeetingType)
	if !meetingType.IsSupported() {
		return nil, appErrors.ErrUnsupportedMeetingType
	}

	admin, err := s.resolver.Resolve(ctx, req.AdminID)
	if err != nil {
		return nil, err
	}
	if !admin.MeetingsEnabled {
		return nil, appErrors.ErrMeetingsDisabled
	}

	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", req.Timezone))
	}
	startLocal, err := time.ParseInLocation(dto.StartLocalLayout, req.StartLocal, loc)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("start_local must match %s", dto.StartLocalLayout))
	}
	startUTC := startLocal.UTC()
	if !startUTC.After(s.now().UTC()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requested start is in the past")
	}

	durationMin, err := s.resolveDuration(admin, meetingType, len(req.StudentIDs))
	if err != nil {
		return nil, err
	}
	endUTC := startUTC.Add(time.Duration(durationMin) * time.Minute)
	requested := schedule.Interval{Start: startUTC, End: endUTC}

	buffer := time.Duration(admin.BufferMinutes(meetingType)) * time.Minute
	guard := schedule.Expand(requested, buffer, buffer)

	if err := s.assertAvailable(ctx, admin, meetingType, requested, guard); err != nil {
		return nil, err
	}

	adminLoc, locErr := time.LoadLocation(admin.Timezone)
	if locErr != nil {
		adminLoc = time.UTC
	}
	monthKey := schedule.MonthKey(startUTC, adminLoc)

	if meetingType == models.MeetingTypeFollowUp {
		if err := s.enforceQuota(ctx, guardianID, req.StudentIDs, monthKey); err != nil {
			return nil, err
		}
	}

	studentKeys := make([]string, 0, len(req.StudentIDs))
	for _, studentID := range req.StudentIDs {
		studentKeys = append(studentKeys, schedule.StudentQuotaKey(guardianID, studentID, monthKey))
	}

	meeting := &models.Meeting{
		ID:              uuid.NewString(),
		Type:            meetingType,
		Status:          models.MeetingStatusScheduled,
		ScheduledStart:  startUTC,
		ScheduledEnd:    endUTC,
		DurationMinutes: durationMin,
		Timezone:        req.Timezone,
		AdminID:         admin.ID,
		GuardianID:      guardianID,
		TeacherID:       req.TeacherID,
		StudentIDs:      req.StudentIDs,
		BufferBeforeMin: int(buffer / time.Minute),
		BufferAfterMin:  int(buffer / time.Minute),
		QuotaMonthKey:   monthKey,
		QuotaStudentKey: studentKeys,
		Notes:           req.Notes,
	}

	if err := s.meetings.CreateScheduled(ctx, meeting, guard); err != nil {
		return nil, err
	}

	s.logger.Info("meeting booked",
		zap.String("meeting_id", meeting.ID),
		zap.String("admin_id", admin.ID),
		zap.String("guardian_id", guardianID),
		zap.String("type", string(meetingType)),
		zap.Time("start", startUTC),
		zap.Int("duration_min", durationMin),
	)

	var handle *dto.ArtifactHandle
	if s.artifacts != nil {
		handle, err = s.artifacts.Generate(ctx, meeting, admin)
		if err != nil {
			s.logger.Warn("failed to generate calendar artifacts", zap.String("meeting_id", meeting.ID), zap.Error(err))
			handle = nil
		}
	}
	if s.notifier != nil {
		if err := s.notifier.EnqueueBooked(meeting, handle); err != nil {
			s.logger.Warn("failed to enqueue booking notification", zap.String("meeting_id", meeting.ID), zap.Error(err))
		}
	}
	if s.cache != nil {
		s.cache.InvalidateAdmin(ctx, admin.ID)
	}

	return &dto.BookingResult{
		MeetingID:       meeting.ID,
		MeetingType:     string(meeting.Type),
		Status:          string(meeting.Status),
		ScheduledStart:  meeting.ScheduledStart,
		ScheduledEnd:    meeting.ScheduledEnd,
		DurationMinutes: meeting.DurationMinutes,
		Timezone:        meeting.Timezone,
		AdminID:         meeting.AdminID,
		Artifacts:       handle,
	}, nil
}

// assertAvailable runs the three independent checks in order: slot
// coverage, meeting conflict, vacation/time-off. Cheapest and most common
// failure first.
func (s *BookingService) assertAvailable(ctx context.Context, admin *models.Admin, meetingType models.MeetingType, requested, guard schedule.Interval) error {
	slots, err := s.slots.ListActive(ctx, admin.ID, meetingType)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability slots")
	}
	covered := false
	for _, slot := range slots {
		if schedule.Covers(slot, requested.Start, requested.End) {
			covered = true
			break
		}
	}
	if !covered {
		return appErrors.ErrOutsideAvailability
	}

	// The request interval carries the buffer on both sides and is compared
	// against raw stored bounds; under addition that equals symmetric
	// expansion of both meetings.
	collidingID, err := s.meetings.FindOverlapping(ctx, admin.ID, meetingType, guard)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check meeting conflicts")
	}
	if collidingID != "" {
		return appErrors.WithDetails(appErrors.ErrBookingConflict, map[string]interface{}{
			"conflict_meeting_id": collidingID,
		})
	}

	// Vacations and time off block the raw interval, not the expanded one.
	vacations, err := s.vacations.ListActiveInRange(ctx, requested.Start, requested.End)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check vacations")
	}
	if len(vacations) > 0 {
		return appErrors.Clone(appErrors.ErrBlockedByVacation, fmt.Sprintf("blocked by vacation %q", vacations[0].Name))
	}

	periods, err := s.timeOff.ListActiveInRange(ctx, admin.ID, requested.Start, requested.End)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check time off")
	}
	if len(periods) > 0 {
		return appErrors.ErrBlockedByTimeOff
	}
	return nil
}

// enforceQuota caps recurring follow-ups per guardian, student and
// calendar month, month boundaries computed in the admin's timezone.
func (s *BookingService) enforceQuota(ctx context.Context, guardianID string, studentIDs []string, monthKey string) error {
	if len(studentIDs) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "follow_up bookings require at least one student")
	}
	for _, studentID := range studentIDs {
		key := schedule.StudentQuotaKey(guardianID, studentID, monthKey)
		count, err := s.meetings.CountByQuotaKey(ctx, models.MeetingTypeFollowUp, key)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check follow-up quota")
		}
		if count >= s.booking.FollowUpMonthlyQuota {
			return appErrors.WithDetails(appErrors.ErrQuotaExceeded, map[string]interface{}{
				"student_id": studentID,
				"month":      monthKey,
			})
		}
	}
	return nil
}

func (s *BookingService) resolveDuration(admin *models.Admin, meetingType models.MeetingType, students int) (int, error) {
	var durationMin int
	switch meetingType {
	case models.MeetingTypeEvaluation:
		if students < 1 {
			students = 1
		}
		durationMin = students * admin.DurationEvaluationMin
	default:
		durationMin = admin.DefaultDurationMinutes(meetingType)
	}

	minMin := s.booking.MinDurationFloorMin
	if minMin <= 0 {
		minMin = models.MinMeetingDurationMinutes
	}
	maxMin := s.booking.MaxDurationMin
	if maxMin <= 0 {
		maxMin = models.MaxMeetingDurationMinutes
	}
	if durationMin < minMin || durationMin > maxMin {
		return 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("meeting duration %d min is outside [%d, %d]", durationMin, minMin, maxMin))
	}
	return durationMin, nil
}
