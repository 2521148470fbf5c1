package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type timeOffStore interface {
	FindByID(ctx context.Context, id string) (*models.UnavailablePeriod, error)
	ListByAdmin(ctx context.Context, adminID string) ([]models.UnavailablePeriod, error)
	Create(ctx context.Context, period *models.UnavailablePeriod) error
	Deactivate(ctx context.Context, id string) error
}

// TimeOffService manages one-off unavailable periods for an admin.
type TimeOffService struct {
	periods   timeOffStore
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

func NewTimeOffService(periods timeOffStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *TimeOffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeOffService{periods: periods, cache: cache, validator: validate, logger: logger}
}

func (s *TimeOffService) List(ctx context.Context, adminID string) ([]models.UnavailablePeriod, error) {
	periods, err := s.periods.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time off")
	}
	return periods, nil
}

func (s *TimeOffService) Create(ctx context.Context, adminID string, req dto.CreateTimeOffRequest) (*models.UnavailablePeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time off payload")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ends_at must be after starts_at")
	}

	period := &models.UnavailablePeriod{
		AdminID:     adminID,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
		Timezone:    req.Timezone,
		Description: req.Description,
		Active:      true,
	}
	if err := s.periods.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create time off")
	}
	s.logger.Info("time off created",
		zap.String("period_id", period.ID),
		zap.String("admin_id", adminID),
		zap.Time("starts_at", period.StartsAt),
		zap.Time("ends_at", period.EndsAt),
	)
	s.invalidate(ctx, adminID)
	return period, nil
}

func (s *TimeOffService) Delete(ctx context.Context, adminID, periodID string) error {
	period, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "time off period not found")
	}
	if period.AdminID != adminID {
		return appErrors.ErrForbidden
	}
	if err := s.periods.Deactivate(ctx, periodID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete time off")
	}
	s.invalidate(ctx, adminID)
	return nil
}

func (s *TimeOffService) invalidate(ctx context.Context, adminID string) {
	if s.cache != nil {
		s.cache.InvalidateAdmin(ctx, adminID)
	}
}
