package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type vacationStore interface {
	ListActive(ctx context.Context) ([]models.SystemVacation, error)
	Create(ctx context.Context, vacation *models.SystemVacation) error
	Deactivate(ctx context.Context, id string) error
}

type globalCacheInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// VacationService manages organization-wide blackout windows. Vacations
// block every admin, so mutations drop the whole availability cache.
type VacationService struct {
	vacations vacationStore
	cache     globalCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

func NewVacationService(vacations vacationStore, cache globalCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *VacationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacationService{vacations: vacations, cache: cache, validator: validate, logger: logger}
}

func (s *VacationService) ListActive(ctx context.Context) ([]models.SystemVacation, error) {
	vacations, err := s.vacations.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacations")
	}
	return vacations, nil
}

func (s *VacationService) Create(ctx context.Context, createdBy string, req dto.CreateVacationRequest) (*models.SystemVacation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacation payload")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ends_at must be after starts_at")
	}

	vacation := &models.SystemVacation{
		Name:      req.Name,
		Message:   req.Message,
		StartsAt:  req.StartsAt.UTC(),
		EndsAt:    req.EndsAt.UTC(),
		Active:    true,
		CreatedBy: createdBy,
	}
	if err := s.vacations.Create(ctx, vacation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vacation")
	}
	s.logger.Info("system vacation created",
		zap.String("vacation_id", vacation.ID),
		zap.String("name", vacation.Name),
		zap.Time("starts_at", vacation.StartsAt),
		zap.Time("ends_at", vacation.EndsAt),
	)
	s.invalidate(ctx)
	return vacation, nil
}

func (s *VacationService) Delete(ctx context.Context, vacationID string) error {
	if err := s.vacations.Deactivate(ctx, vacationID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete vacation")
	}
	s.invalidate(ctx)
	return nil
}

func (s *VacationService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
}
