package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type slotStore interface {
	FindByID(ctx context.Context, id string) (*models.AvailabilitySlot, error)
	ListByAdmin(ctx context.Context, adminID string) ([]models.AvailabilitySlot, error)
	ListActiveByDay(ctx context.Context, adminID string, meetingType models.MeetingType, dayOfWeek int) ([]models.AvailabilitySlot, error)
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	Update(ctx context.Context, slot *models.AvailabilitySlot) error
	Deactivate(ctx context.Context, id string) error
}

// SlotService manages the recurring availability rules of an admin.
// Mutations invalidate the cached availability windows.
type SlotService struct {
	slots     slotStore
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

func NewSlotService(slots slotStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{slots: slots, cache: cache, validator: validate, logger: logger}
}

func (s *SlotService) List(ctx context.Context, adminID string) ([]models.AvailabilitySlot, error) {
	slots, err := s.slots.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability slots")
	}
	return slots, nil
}

// Create validates the rule and rejects it when it would overlap an active
// sibling rule of the same type on the same weekday.
func (s *SlotService) Create(ctx context.Context, adminID string, req dto.CreateSlotRequest) (*models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	meetingType := models.MeetingType(req.MeetingType)
	if !meetingType.IsSupported() {
		return nil, appErrors.ErrUnsupportedMeetingType
	}

	slot := &models.AvailabilitySlot{
		AdminID:       adminID,
		MeetingType:   meetingType,
		DayOfWeek:     req.DayOfWeek,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Timezone:      req.Timezone,
		Capacity:      req.Capacity,
		Priority:      req.Priority,
		Active:        true,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	}
	if err := s.validateClock(slot); err != nil {
		return nil, err
	}
	if err := s.assertNoSiblingOverlap(ctx, slot, ""); err != nil {
		return nil, err
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability slot")
	}
	s.logger.Info("availability slot created",
		zap.String("slot_id", slot.ID),
		zap.String("admin_id", adminID),
		zap.String("type", string(meetingType)),
		zap.Int("day_of_week", slot.DayOfWeek),
	)
	s.invalidate(ctx, adminID)
	return slot, nil
}

func (s *SlotService) Update(ctx context.Context, adminID, slotID string, req dto.UpdateSlotRequest) (*models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	slot, err := s.ownedSlot(ctx, adminID, slotID)
	if err != nil {
		return nil, err
	}

	slot.DayOfWeek = req.DayOfWeek
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	slot.Timezone = req.Timezone
	slot.Capacity = req.Capacity
	slot.Priority = req.Priority
	slot.Active = req.Active
	slot.EffectiveFrom = req.EffectiveFrom
	slot.EffectiveTo = req.EffectiveTo

	if err := s.validateClock(slot); err != nil {
		return nil, err
	}
	if slot.Active {
		if err := s.assertNoSiblingOverlap(ctx, slot, slot.ID); err != nil {
			return nil, err
		}
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update availability slot")
	}
	s.invalidate(ctx, adminID)
	return slot, nil
}

// Delete soft-disables the rule; already booked meetings remain untouched.
func (s *SlotService) Delete(ctx context.Context, adminID, slotID string) error {
	if _, err := s.ownedSlot(ctx, adminID, slotID); err != nil {
		return err
	}
	if err := s.slots.Deactivate(ctx, slotID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate availability slot")
	}
	s.logger.Info("availability slot deactivated", zap.String("slot_id", slotID), zap.String("admin_id", adminID))
	s.invalidate(ctx, adminID)
	return nil
}

func (s *SlotService) ownedSlot(ctx context.Context, adminID, slotID string) (*models.AvailabilitySlot, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "availability slot not found")
	}
	if slot.AdminID != adminID {
		return nil, appErrors.ErrForbidden
	}
	return slot, nil
}

func (s *SlotService) validateClock(slot *models.AvailabilitySlot) error {
	if _, err := time.LoadLocation(slot.Timezone); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", slot.Timezone))
	}
	if _, _, err := slot.ClockMinutes(); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if slot.EffectiveFrom != nil && slot.EffectiveTo != nil && !slot.EffectiveTo.After(*slot.EffectiveFrom) {
		return appErrors.Clone(appErrors.ErrValidation, "effective_to must be after effective_from")
	}
	return nil
}

// assertNoSiblingOverlap compares wall-clock minutes against every active
// rule of the same type and weekday, skipping the rule being updated.
// Rules in different timezones on the same weekday are compared on their
// local clocks, which matches how each materializes independently.
func (s *SlotService) assertNoSiblingOverlap(ctx context.Context, slot *models.AvailabilitySlot, excludeID string) error {
	siblings, err := s.slots.ListActiveByDay(ctx, slot.AdminID, slot.MeetingType, slot.DayOfWeek)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sibling slots")
	}
	start, end, err := slot.ClockMinutes()
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	for _, sibling := range siblings {
		if sibling.ID == excludeID || sibling.Timezone != slot.Timezone {
			continue
		}
		sibStart, sibEnd, sibErr := sibling.ClockMinutes()
		if sibErr != nil {
			continue
		}
		if start < sibEnd && sibStart < end {
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("slot overlaps existing rule %s (%s-%s)", sibling.ID, sibling.StartTime, sibling.EndTime))
		}
	}
	return nil
}

func (s *SlotService) invalidate(ctx context.Context, adminID string) {
	if s.cache != nil {
		s.cache.InvalidateAdmin(ctx, adminID)
	}
}
