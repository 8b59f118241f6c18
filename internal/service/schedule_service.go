package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rpsoft/puntualidad-api/internal/models"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
)

type scheduleStore interface {
	GetByIntern(ctx context.Context, internID string) (*models.ClassSchedule, error)
	ListByClassDay(ctx context.Context, day models.Weekday) ([]models.ClassSchedule, error)
	Upsert(ctx context.Context, schedule *models.ClassSchedule) (*models.ClassSchedule, error)
}

// ScheduleService manages class-day assignments per intern.
type ScheduleService struct {
	store     scheduleStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(store scheduleStore, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScheduleService{store: store, validator: validate, logger: logger}
	svc.validator.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.Weekday(fl.Field().String()).Valid()
	})
	return svc
}

// ClassDayFor returns the intern's class weekday, or nil when none is set.
func (s *ScheduleService) ClassDayFor(ctx context.Context, internID string) (*models.Weekday, error) {
	if internID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "intern id required")
	}
	schedule, err := s.store.GetByIntern(ctx, internID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load schedule")
	}
	if schedule == nil {
		return nil, nil
	}
	return schedule.ClassDay, nil
}

// InternsWithClassOn returns the interns scheduled for class on the weekday.
func (s *ScheduleService) InternsWithClassOn(ctx context.Context, day models.Weekday) ([]string, error) {
	if !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid weekday")
	}
	schedules, err := s.store.ListByClassDay(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list schedules")
	}
	ids := make([]string, 0, len(schedules))
	for _, schedule := range schedules {
		ids = append(ids, schedule.InternID)
	}
	return ids, nil
}

// UpsertScheduleRequest describes the schedule assignment payload.
type UpsertScheduleRequest struct {
	InternID    string  `json:"intern_id" validate:"required"`
	ClassDay    *string `json:"class_day" validate:"omitempty,weekday"`
	RecoveryDay *string `json:"recovery_day" validate:"omitempty,weekday"`
}

// Upsert replaces the intern's schedule.
func (s *ScheduleService) Upsert(ctx context.Context, req UpsertScheduleRequest) (*models.ClassSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	schedule := &models.ClassSchedule{InternID: req.InternID}
	if req.ClassDay != nil {
		day := models.Weekday(*req.ClassDay)
		schedule.ClassDay = &day
	}
	if req.RecoveryDay != nil {
		day := models.Weekday(*req.RecoveryDay)
		schedule.RecoveryDay = &day
	}
	stored, err := s.store.Upsert(ctx, schedule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to save schedule")
	}
	return stored, nil
}
