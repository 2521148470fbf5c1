package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/internal/schedule"
	"github.com/noah-isme/sma-meet-api/pkg/config"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type slotReader interface {
	ListActive(ctx context.Context, adminID string, meetingType models.MeetingType) ([]models.AvailabilitySlot, error)
}

type blockingMeetingReader interface {
	ListBlockingInRange(ctx context.Context, adminID string, meetingType models.MeetingType, from, to time.Time) ([]models.Meeting, error)
}

type vacationRangeReader interface {
	ListActiveInRange(ctx context.Context, from, to time.Time) ([]models.SystemVacation, error)
}

type timeOffRangeReader interface {
	ListActiveInRange(ctx context.Context, adminID string, from, to time.Time) ([]models.UnavailablePeriod, error)
}

type windowCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type availabilityMetrics interface {
	RecordAvailability(windows int, cacheHit bool)
}

// AvailabilityService turns recurring slots, blocking meetings, vacations
// and time-off into concrete bookable windows.
type AvailabilityService struct {
	resolver  AdminResolver
	slots     slotReader
	meetings  blockingMeetingReader
	vacations vacationRangeReader
	timeOff   timeOffRangeReader
	cache     windowCache
	metrics   availabilityMetrics
	booking   config.BookingConfig
	readCfg   config.AvailabilityConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewAvailabilityService wires the computation with its collaborators.
// cache and metrics may be nil.
func NewAvailabilityService(
	resolver AdminResolver,
	slots slotReader,
	meetings blockingMeetingReader,
	vacations vacationRangeReader,
	timeOff timeOffRangeReader,
	cache windowCache,
	metrics availabilityMetrics,
	booking config.BookingConfig,
	readCfg config.AvailabilityConfig,
	logger *zap.Logger,
) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		resolver:  resolver,
		slots:     slots,
		meetings:  meetings,
		vacations: vacations,
		timeOff:   timeOff,
		cache:     cache,
		metrics:   metrics,
		booking:   booking,
		readCfg:   readCfg,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *AvailabilityService) WithClock(now func() time.Time) *AvailabilityService {
	s.now = now
	return s
}

// ComputeWindows returns the free windows for an admin and meeting type in
// a clamped range, ascending by UTC start. The boolean reports a cache hit.
//
// Overlapping windows from different slots on the same day are intentional
// (parallel capacity) and left unmerged.
func (s *AvailabilityService) ComputeWindows(ctx context.Context, req dto.AvailabilityRequest) ([]dto.AvailabilityWindow, bool, error) {
	meetingType := models.MeetingType(req.MeetingType)
	if !meetingType.IsSupported() {
		return nil, false, appErrors.ErrUnsupportedMeetingType
	}

	admin, err := s.resolver.Resolve(ctx, req.AdminID)
	if err != nil {
		return nil, false, err
	}
	if !admin.MeetingsEnabled {
		return []dto.AvailabilityWindow{}, false, nil
	}

	rangeStart, rangeEnd := s.clampRange(req.RangeStart, req.RangeEnd)

	viewerTZ := req.ViewerTZ
	if viewerTZ == "" {
		viewerTZ = admin.Timezone
	}
	if viewerTZ == "" {
		viewerTZ = s.booking.DefaultTimezone
	}
	viewerLoc, err := time.LoadLocation(viewerTZ)
	if err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", viewerTZ))
	}

	minMinutes := req.MinDuration
	if minMinutes <= 0 {
		minMinutes = admin.DefaultDurationMinutes(meetingType)
	}
	if minMinutes < s.booking.MinDurationFloorMin {
		minMinutes = s.booking.MinDurationFloorMin
	}
	minDuration := time.Duration(minMinutes) * time.Minute

	cacheKey := availabilityCacheKey(admin.ID, meetingType, rangeStart, rangeEnd, viewerTZ, minMinutes)
	if s.readCfg.CacheEnabled && s.cache != nil {
		var cached []dto.AvailabilityWindow
		if cacheErr := s.cache.Get(ctx, cacheKey, &cached); cacheErr == nil {
			s.record(len(cached), true)
			return cached, true, nil
		}
	}

	var slots []models.AvailabilitySlot
	if err := s.withRetry(ctx, func() error {
		var loadErr error
		slots, loadErr = s.slots.ListActive(ctx, admin.ID, meetingType)
		return loadErr
	}); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability slots")
	}
	if len(slots) == 0 {
		s.record(0, false)
		return []dto.AvailabilityWindow{}, false, nil
	}

	// Load each blocking source once per call; per-window filtering happens
	// in memory.
	var (
		meetings  []models.Meeting
		vacations []models.SystemVacation
		timeOff   []models.UnavailablePeriod
	)
	if err := s.withRetry(ctx, func() error {
		var loadErr error
		meetings, loadErr = s.meetings.ListBlockingInRange(ctx, admin.ID, meetingType, rangeStart, rangeEnd)
		return loadErr
	}); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meetings")
	}
	if err := s.withRetry(ctx, func() error {
		var loadErr error
		vacations, loadErr = s.vacations.ListActiveInRange(ctx, rangeStart, rangeEnd)
		return loadErr
	}); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacations")
	}
	if err := s.withRetry(ctx, func() error {
		var loadErr error
		timeOff, loadErr = s.timeOff.ListActiveInRange(ctx, admin.ID, rangeStart, rangeEnd)
		return loadErr
	}); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time off")
	}

	buffer := time.Duration(admin.BufferMinutes(meetingType)) * time.Minute
	clampedRange := schedule.Interval{Start: rangeStart, End: rangeEnd}

	windows := make([]dto.AvailabilityWindow, 0)
	for _, slot := range slots {
		loc, locErr := time.LoadLocation(slot.Timezone)
		if locErr != nil {
			s.logger.Warn("slot has invalid timezone, skipping",
				zap.String("slot_id", slot.ID), zap.String("timezone", slot.Timezone))
			continue
		}

		for _, day := range schedule.DaysBetween(rangeStart, rangeEnd, loc) {
			window, ok := schedule.Materialize(slot, day)
			if !ok || !window.Overlaps(clampedRange) {
				continue
			}
			// Never offer time before the range floor or past the lookahead cap.
			window = schedule.Clip(window, clampedRange)
			if window.IsEmpty() {
				continue
			}

			busy := make([]schedule.Interval, 0)
			for _, m := range meetings {
				iv := schedule.Expand(schedule.Interval{Start: m.ScheduledStart, End: m.ScheduledEnd}, buffer, buffer)
				if iv.Overlaps(window) {
					busy = append(busy, iv)
				}
			}
			// Vacations and time off block as-is, no buffer expansion.
			for _, v := range vacations {
				iv := schedule.Interval{Start: v.StartsAt, End: v.EndsAt}
				if iv.Overlaps(window) {
					busy = append(busy, iv)
				}
			}
			for _, p := range timeOff {
				iv := schedule.Interval{Start: p.StartsAt, End: p.EndsAt}
				if iv.Overlaps(window) {
					busy = append(busy, iv)
				}
			}

			for _, seg := range schedule.FilterMinDuration(schedule.Subtract(window, busy), minDuration) {
				windows = append(windows, dto.AvailabilityWindow{
					StartUTC:   seg.Start,
					EndUTC:     seg.End,
					StartLocal: seg.Start.In(viewerLoc).Format(time.RFC3339),
					EndLocal:   seg.End.In(viewerLoc).Format(time.RFC3339),
					Timezone:   viewerTZ,
				})
			}
		}
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartUTC.Before(windows[j].StartUTC)
	})

	if s.readCfg.CacheEnabled && s.cache != nil {
		if cacheErr := s.cache.Set(ctx, cacheKey, windows, s.readCfg.CacheTTL); cacheErr != nil {
			s.logger.Warn("failed to cache availability windows", zap.Error(cacheErr))
		}
	}

	s.record(len(windows), false)
	return windows, false, nil
}

// InvalidateAdmin drops every cached window set for the admin. Called after
// booking commits and slot/time-off mutations.
func (s *AvailabilityService) InvalidateAdmin(ctx context.Context, adminID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, "availability:"+adminID+":"); err != nil {
		s.logger.Warn("failed to invalidate availability cache", zap.String("admin_id", adminID), zap.Error(err))
	}
}

// InvalidateAll drops every cached window set. Used when an
// organization-wide blackout changes.
func (s *AvailabilityService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, "availability:"); err != nil {
		s.logger.Warn("failed to invalidate availability cache", zap.Error(err))
	}
}

// clampRange applies the default and maximum lookahead. The start floors at
// now; past windows are never offered.
func (s *AvailabilityService) clampRange(reqStart, reqEnd *time.Time) (time.Time, time.Time) {
	now := s.now().UTC()

	start := now
	if reqStart != nil && reqStart.After(now) {
		start = reqStart.UTC()
	}

	end := start.AddDate(0, 0, s.booking.DefaultLookaheadDays)
	if reqEnd != nil && reqEnd.After(start) {
		end = reqEnd.UTC()
	}
	if max := start.AddDate(0, 0, s.booking.MaxLookaheadDays); end.After(max) {
		end = max
	}
	return start, end
}

func (s *AvailabilityService) withRetry(ctx context.Context, op func() error) error {
	retries := s.readCfg.ReadRetries
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	return err
}

func (s *AvailabilityService) record(windows int, cacheHit bool) {
	if s.metrics != nil {
		s.metrics.RecordAvailability(windows, cacheHit)
	}
}

func availabilityCacheKey(adminID string, meetingType models.MeetingType, start, end time.Time, tz string, minMinutes int) string {
	return fmt.Sprintf("availability:%s:%s:%d:%d:%s:%d", adminID, meetingType, start.Unix(), end.Unix(), tz, minMinutes)
}
