package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type stubSlotStore struct {
	byID    map[string]*models.AvailabilitySlot
	byDay   []models.AvailabilitySlot
	created *models.AvailabilitySlot
	updated *models.AvailabilitySlot
	removed string
}

func (s *stubSlotStore) FindByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	if slot, ok := s.byID[id]; ok {
		return slot, nil
	}
	return nil, assert.AnError
}

func (s *stubSlotStore) ListByAdmin(ctx context.Context, adminID string) ([]models.AvailabilitySlot, error) {
	return s.byDay, nil
}

func (s *stubSlotStore) ListActiveByDay(ctx context.Context, adminID string, meetingType models.MeetingType, dayOfWeek int) ([]models.AvailabilitySlot, error) {
	return s.byDay, nil
}

func (s *stubSlotStore) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	slot.ID = "slot-new"
	s.created = slot
	return nil
}

func (s *stubSlotStore) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	s.updated = slot
	return nil
}

func (s *stubSlotStore) Deactivate(ctx context.Context, id string) error {
	s.removed = id
	return nil
}

type stubInvalidator struct {
	admins []string
}

func (s *stubInvalidator) InvalidateAdmin(ctx context.Context, adminID string) {
	s.admins = append(s.admins, adminID)
}

func validSlotRequest() dto.CreateSlotRequest {
	return dto.CreateSlotRequest{
		MeetingType: "follow_up",
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "12:00",
		Timezone:    "Asia/Jakarta",
		Capacity:    1,
	}
}

func TestSlotServiceCreatesRuleAndInvalidatesCache(t *testing.T) {
	store := &stubSlotStore{}
	cache := &stubInvalidator{}
	svc := NewSlotService(store, cache, nil, nil)

	slot, err := svc.Create(context.Background(), "admin-1", validSlotRequest())

	require.NoError(t, err)
	assert.Equal(t, "slot-new", slot.ID)
	assert.True(t, slot.Active)
	assert.Equal(t, "admin-1", slot.AdminID)
	assert.Equal(t, []string{"admin-1"}, cache.admins)
}

func TestSlotServiceRejectsInvertedClock(t *testing.T) {
	svc := NewSlotService(&stubSlotStore{}, nil, nil, nil)

	req := validSlotRequest()
	req.StartTime = "12:00"
	req.EndTime = "09:00"

	_, err := svc.Create(context.Background(), "admin-1", req)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSlotServiceRejectsUnknownTimezone(t *testing.T) {
	svc := NewSlotService(&stubSlotStore{}, nil, nil, nil)

	req := validSlotRequest()
	req.Timezone = "Mars/Olympus"

	_, err := svc.Create(context.Background(), "admin-1", req)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSlotServiceRejectsOverlappingSibling(t *testing.T) {
	store := &stubSlotStore{byDay: []models.AvailabilitySlot{{
		ID:          "slot-existing",
		AdminID:     "admin-1",
		MeetingType: models.MeetingTypeFollowUp,
		DayOfWeek:   1,
		StartTime:   "10:00",
		EndTime:     "13:00",
		Timezone:    "Asia/Jakarta",
		Active:      true,
	}}}
	svc := NewSlotService(store, nil, nil, nil)

	_, err := svc.Create(context.Background(), "admin-1", validSlotRequest())

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestSlotServiceAllowsAdjacentSibling(t *testing.T) {
	store := &stubSlotStore{byDay: []models.AvailabilitySlot{{
		ID:        "slot-existing",
		StartTime: "12:00",
		EndTime:   "14:00",
		Timezone:  "Asia/Jakarta",
		DayOfWeek: 1,
		Active:    true,
	}}}
	svc := NewSlotService(store, nil, nil, nil)

	_, err := svc.Create(context.Background(), "admin-1", validSlotRequest())

	require.NoError(t, err)
}

func TestSlotServiceUpdateSkipsSelfInOverlapCheck(t *testing.T) {
	existing := &models.AvailabilitySlot{
		ID:          "slot-1",
		AdminID:     "admin-1",
		MeetingType: models.MeetingTypeFollowUp,
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "12:00",
		Timezone:    "Asia/Jakarta",
		Active:      true,
	}
	store := &stubSlotStore{
		byID:  map[string]*models.AvailabilitySlot{"slot-1": existing},
		byDay: []models.AvailabilitySlot{*existing},
	}
	svc := NewSlotService(store, nil, nil, nil)

	slot, err := svc.Update(context.Background(), "admin-1", "slot-1", dto.UpdateSlotRequest{
		DayOfWeek: 1,
		StartTime: "09:30",
		EndTime:   "12:30",
		Timezone:  "Asia/Jakarta",
		Capacity:  1,
		Active:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "09:30", slot.StartTime)
	require.NotNil(t, store.updated)
}

func TestSlotServiceDeleteRequiresOwnership(t *testing.T) {
	store := &stubSlotStore{byID: map[string]*models.AvailabilitySlot{
		"slot-1": {ID: "slot-1", AdminID: "admin-2"},
	}}
	svc := NewSlotService(store, nil, nil, nil)

	err := svc.Delete(context.Background(), "admin-1", "slot-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.removed)
}

func TestSlotServiceDeleteSoftDisables(t *testing.T) {
	store := &stubSlotStore{byID: map[string]*models.AvailabilitySlot{
		"slot-1": {ID: "slot-1", AdminID: "admin-1"},
	}}
	cache := &stubInvalidator{}
	svc := NewSlotService(store, cache, nil, nil)

	err := svc.Delete(context.Background(), "admin-1", "slot-1")

	require.NoError(t, err)
	assert.Equal(t, "slot-1", store.removed)
	assert.Equal(t, []string{"admin-1"}, cache.admins)
}
