package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/internal/models"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
)

type attendanceStore interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error)
}

type internRoster interface {
	ListActive(ctx context.Context) ([]models.Intern, error)
}

// AttendanceService records daily presence marks and serves the intern
// day board. Justified absences are owned by the justification service.
type AttendanceService struct {
	store     attendanceStore
	roster    internRoster
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the service.
func NewAttendanceService(store attendanceStore, roster internRoster, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{store: store, roster: roster, validator: validate, logger: logger, now: time.Now}
	svc.validator.RegisterValidation("mark_state", func(fl validator.FieldLevel) bool {
		state := models.AttendanceState(fl.Field().String())
		// justified absences go through the justification flow
		return state.Valid() && state != models.StateAbsentJustified
	})
	return svc
}

// MarkAttendanceRequest describes the payload for marking an intern's day.
type MarkAttendanceRequest struct {
	InternID  string `json:"intern_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	State     string `json:"state" validate:"required,mark_state"`
	EntryTime string `json:"entry_time"`
	ExitTime  string `json:"exit_time"`
}

// Mark upserts the attendance record for (intern, date). Calling it twice
// for the same date mutates the single record in place.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	if date.After(dayStart(s.now().UTC())) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date cannot be in the future")
	}

	record := &models.AttendanceRecord{
		InternID: req.InternID,
		Date:     date,
		State:    models.AttendanceState(req.State),
	}
	if req.EntryTime != "" {
		entry, err := combineClock(date, req.EntryTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid entry time, expected HH:MM")
		}
		record.EntryTime = &entry
	}
	if req.ExitTime != "" {
		exit, err := combineClock(date, req.ExitTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid exit time, expected HH:MM")
		}
		record.ExitTime = &exit
	}

	stored, err := s.store.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to mark attendance")
	}
	return stored, nil
}

// ListByDate returns every record for one date.
func (s *AttendanceService) ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error) {
	rows, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list attendance")
	}
	return rows, nil
}

// DayBoard lists every active intern with their state for the date. Interns
// without a record default to unjustified absence.
func (s *AttendanceService) DayBoard(ctx context.Context, date time.Time) ([]dto.InternDayRow, error) {
	interns, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load roster")
	}
	records, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list attendance")
	}

	byIntern := make(map[string]*models.AttendanceRecord, len(records))
	for i := range records {
		byIntern[records[i].InternID] = &records[i]
	}

	rows := make([]dto.InternDayRow, 0, len(interns))
	for _, intern := range interns {
		row := dto.InternDayRow{
			InternID: intern.ID,
			FullName: intern.FullName,
			State:    models.StateAbsentUnjustified,
		}
		if intern.Team != nil {
			row.Team = *intern.Team
		}
		if rec, ok := byIntern[intern.ID]; ok {
			row.State = rec.State
			if rec.EntryTime != nil {
				entry := rec.EntryTime.Format("15:04")
				row.EntryTime = &entry
			}
			if rec.HasReason() {
				row.Ticket = rec.Reason
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ActiveInterns exposes the roster for listing endpoints.
func (s *AttendanceService) ActiveInterns(ctx context.Context) ([]models.Intern, error) {
	interns, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load roster")
	}
	return interns, nil
}
