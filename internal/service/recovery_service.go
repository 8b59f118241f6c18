package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/internal/models"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
)

type recoveryStore interface {
	GetByID(ctx context.Context, id string) (*models.RecoverySession, error)
	ListByRecord(ctx context.Context, recordID string) ([]models.RecoverySession, error)
	List(ctx context.Context, limit int) ([]models.RecoveryDetail, error)
	Create(ctx context.Context, session *models.RecoverySession) (*models.RecoverySession, error)
	Update(ctx context.Context, session *models.RecoverySession) (*models.RecoverySession, error)
}

type recoveryRecordStore interface {
	GetByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
}

// RecoveryServiceConfig tunes hour accrual.
type RecoveryServiceConfig struct {
	DefaultTargetHours int
	MaxSessionHours    float64
}

// RecoveryService accrues make-up hours against missed attendance records.
type RecoveryService struct {
	store     recoveryStore
	records   recoveryRecordStore
	validator *validator.Validate
	logger    *zap.Logger
	cfg       RecoveryServiceConfig
}

// NewRecoveryService constructs the service with sane defaults.
func NewRecoveryService(store recoveryStore, records recoveryRecordStore, validate *validator.Validate, logger *zap.Logger, cfg RecoveryServiceConfig) *RecoveryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultTargetHours <= 0 {
		cfg.DefaultTargetHours = 6
	}
	if cfg.MaxSessionHours <= 0 {
		cfg.MaxSessionHours = 12
	}
	return &RecoveryService{store: store, records: records, validator: validate, logger: logger, cfg: cfg}
}

// CompletedHours derives the hours worked in a session from its timestamps,
// rounded to 2 decimals and clamped to the per-session maximum. Missing
// timestamps or exit at-or-before entry yield zero.
func (s *RecoveryService) CompletedHours(session *models.RecoverySession) float64 {
	if session.EntryTime == nil || session.ExitTime == nil {
		return 0
	}
	diff := session.ExitTime.Sub(*session.EntryTime)
	if diff <= 0 {
		return 0
	}
	hours := math.Round(diff.Hours()*100) / 100
	return math.Min(hours, s.cfg.MaxSessionHours)
}

// TargetHours returns the session target: the configured floor, raised to
// match observed completion when hours exceed it. The floor never drops.
func (s *RecoveryService) TargetHours(completedHours float64) int {
	target := s.cfg.DefaultTargetHours
	if observed := int(completedHours); observed > target {
		target = observed
	}
	return target
}

// DeriveStatus promotes the stored status according to accrued hours.
// Promotion is monotonic: a completed session never regresses, and
// cancellation is only ever set by explicit action.
func (s *RecoveryService) DeriveStatus(session *models.RecoverySession, completedHours float64, targetHours int) models.RecoveryStatus {
	status := session.Status
	if status == models.RecoveryCancelled || status == models.RecoveryCompleted {
		return status
	}
	if completedHours > 0 && status == models.RecoveryPending {
		status = models.RecoveryInProgress
	}
	if completedHours >= float64(targetHours) {
		status = models.RecoveryCompleted
	}
	return status
}

// ScheduleRecoveryRequest describes the payload for scheduling a session.
type ScheduleRecoveryRequest struct {
	RecordID string `json:"record_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
}

// Schedule creates a pending session against a missed attendance record.
func (s *RecoveryService) Schedule(ctx context.Context, req ScheduleRecoveryRequest) (*models.RecoverySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	record, err := s.records.GetByID(ctx, req.RecordID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load attendance record")
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
	}
	if record.State != models.StateAbsentJustified && record.State != models.StateAbsentUnjustified {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "recovery can only be scheduled against an absence")
	}

	existing, err := s.store.ListByRecord(ctx, record.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load recovery sessions")
	}
	for i := range existing {
		switch existing[i].Status {
		case models.RecoveryPending, models.RecoveryInProgress:
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "record already has an active recovery session")
		}
	}

	session := &models.RecoverySession{
		RecordID:     record.ID,
		RecoveryDate: date,
		Status:       models.RecoveryPending,
	}
	stored, err := s.store.Create(ctx, session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to schedule recovery")
	}
	return stored, nil
}

// RecordHours sets the worked window of a session and promotes its status
// from the newly accrued hours.
func (s *RecoveryService) RecordHours(ctx context.Context, sessionID, entry, exit string) (*models.RecoverySession, error) {
	session, err := s.loadActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	entryAt, err := combineClock(session.RecoveryDate, entry)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid entry time, expected HH:MM")
	}
	exitAt, err := combineClock(session.RecoveryDate, exit)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid exit time, expected HH:MM")
	}
	session.EntryTime = &entryAt
	session.ExitTime = &exitAt

	hours := s.CompletedHours(session)
	session.Status = s.DeriveStatus(session, hours, s.TargetHours(hours))

	stored, err := s.store.Update(ctx, session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to record recovery hours")
	}
	if stored == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "recovery session not found")
	}
	return stored, nil
}

// Cancel terminates a session. Completed sessions cannot be cancelled.
func (s *RecoveryService) Cancel(ctx context.Context, sessionID string) (*models.RecoverySession, error) {
	session, err := s.loadActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Status = models.RecoveryCancelled
	stored, err := s.store.Update(ctx, session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to cancel recovery")
	}
	if stored == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "recovery session not found")
	}
	return stored, nil
}

func (s *RecoveryService) loadActive(ctx context.Context, sessionID string) (*models.RecoverySession, error) {
	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load recovery session")
	}
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "recovery session not found")
	}
	if session.Status == models.RecoveryCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "recovery session is cancelled")
	}
	if session.Status == models.RecoveryCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "recovery session is already completed")
	}
	return session, nil
}

// List returns sessions with derived hours, targets, and ticket references.
func (s *RecoveryService) List(ctx context.Context, limit int) ([]dto.RecoveryRow, error) {
	details, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list recovery sessions")
	}

	rows := make([]dto.RecoveryRow, 0, len(details))
	for i := range details {
		detail := &details[i]
		hours := s.CompletedHours(&detail.RecoverySession)
		target := s.TargetHours(hours)
		rows = append(rows, dto.RecoveryRow{
			ID:             detail.ID,
			RecordID:       detail.RecordID,
			InternID:       detail.InternID,
			InternName:     detail.InternName,
			TicketRef:      ticketRef(detail.RecordID, detail.Reason),
			ScheduledDate:  detail.RecoveryDate.Format("2006-01-02"),
			Window:         sessionWindow(&detail.RecoverySession),
			Status:         s.DeriveStatus(&detail.RecoverySession, hours, target),
			CompletedHours: hours,
			TargetHours:    target,
		})
	}
	return rows, nil
}

var ticketRefPattern = regexp.MustCompile(`(?i)TKT-?\d+`)

// ticketRef extracts a ticket identifier from the record's reason, falling
// back to a synthetic one derived from the record id.
func ticketRef(recordID string, reason *string) string {
	if reason != nil {
		text := strings.TrimSpace(*reason)
		if match := ticketRefPattern.FindString(text); match != "" {
			return strings.ToUpper(match)
		}
		if text != "" && len(text) <= 20 {
			return text
		}
	}
	short := recordID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("TKT-%s", short)
}

func sessionWindow(session *models.RecoverySession) string {
	if session.EntryTime == nil || session.ExitTime == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s", session.EntryTime.Format("15:04"), session.ExitTime.Format("15:04"))
}

func combineClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}
