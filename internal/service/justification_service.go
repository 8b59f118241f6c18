package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/internal/models"
	"github.com/rpsoft/puntualidad-api/internal/repository"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
)

type justificationStore interface {
	GetByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	UpsertJustification(ctx context.Context, record *models.AttendanceRecord, monthStart time.Time, cap int) (*models.AttendanceRecord, int, error)
	ListJustified(ctx context.Context, from, to time.Time) ([]models.JustifiedRecord, error)
	CountTickets(ctx context.Context, internID string, from, to time.Time) (int, error)
}

// JustificationServiceConfig tunes the ticket rules.
type JustificationServiceConfig struct {
	TicketCap int
	SLAWindow time.Duration
}

// JustificationService owns the justification ticket lifecycle: opening,
// review, and the derived SLA status. All calendar arithmetic is UTC.
type JustificationService struct {
	store     justificationStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       JustificationServiceConfig
}

// NewJustificationService constructs the service with sane defaults.
func NewJustificationService(store justificationStore, validate *validator.Validate, logger *zap.Logger, cfg JustificationServiceConfig) *JustificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TicketCap <= 0 {
		cfg.TicketCap = 3
	}
	if cfg.SLAWindow <= 0 {
		cfg.SLAWindow = 24 * time.Hour
	}
	return &JustificationService{store: store, validator: validate, logger: logger, now: time.Now, cfg: cfg}
}

// CreateJustificationRequest describes the payload for opening a ticket.
type CreateJustificationRequest struct {
	InternID  string `json:"intern_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	TicketRef string `json:"ticket_ref"`
}

// CreateOrUpdate opens a justification ticket for (intern, date), or resets
// an existing record for that date back to pending. The monthly cap check
// runs atomically with the write; the record being written never counts
// toward its own limit.
func (s *JustificationService) CreateOrUpdate(ctx context.Context, req CreateJustificationRequest) (*dto.JustificationCreated, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	reason := strings.TrimSpace(req.Reason)
	if len(reason) < 5 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reason must be at least 5 characters")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	today := dayStart(s.now().UTC())
	if date.After(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date cannot be in the future")
	}

	if req.TicketRef != "" {
		reason = fmt.Sprintf("%s - %s", req.TicketRef, reason)
	}

	record := &models.AttendanceRecord{
		InternID: req.InternID,
		Date:     date,
		State:    models.StateAbsentJustified,
		Reason:   &reason,
	}
	stored, used, err := s.store.UpsertJustification(ctx, record, monthStart(date), s.cfg.TicketCap)
	if err != nil {
		if errors.Is(err, repository.ErrTicketLimitReached) {
			return nil, appErrors.Clone(appErrors.ErrTicketLimit,
				fmt.Sprintf("monthly ticket limit reached: %d/%d used", used, s.cfg.TicketCap))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to save justification")
	}

	s.logger.Info("justification opened",
		zap.String("intern_id", stored.InternID),
		zap.String("date", stored.Date.Format("2006-01-02")),
		zap.Int("tickets_used", used+1),
	)

	return &dto.JustificationCreated{
		Record:        stored,
		TicketOrdinal: used + 1,
		TicketCap:     s.cfg.TicketCap,
		SLAHours:      int(s.cfg.SLAWindow.Hours()),
	}, nil
}

// Approve marks a pending justification as approved by populating both
// timestamps with the approval instant.
func (s *JustificationService) Approve(ctx context.Context, recordID string) (*models.AttendanceRecord, error) {
	record, err := s.loadPending(ctx, recordID)
	if err != nil {
		return nil, err
	}

	instant := s.now().UTC()
	record.EntryTime = &instant
	record.ExitTime = &instant

	stored, err := s.store.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to approve justification")
	}
	return stored, nil
}

// Reject annotates a pending justification with the rejection reason. The
// original reason text is preserved; rejection history is append-only.
func (s *JustificationService) Reject(ctx context.Context, recordID, rejectionReason string) (*models.AttendanceRecord, error) {
	rejectionReason = strings.TrimSpace(rejectionReason)
	if rejectionReason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}

	record, err := s.loadPending(ctx, recordID)
	if err != nil {
		return nil, err
	}

	base := ""
	if record.Reason != nil {
		base = *record.Reason
	}
	annotated := fmt.Sprintf("%s [REJECTED: %s]", base, rejectionReason)
	record.Reason = &annotated

	stored, err := s.store.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to reject justification")
	}
	return stored, nil
}

func (s *JustificationService) loadPending(ctx context.Context, recordID string) (*models.AttendanceRecord, error) {
	record, err := s.store.GetByID(ctx, recordID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load justification")
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "justification not found")
	}
	if !record.IsJustified() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "record is not a justified absence")
	}
	if !record.ReviewPending() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "justification already reviewed")
	}
	return record, nil
}

// TicketStatus derives the review status of a justification at the given
// instant, plus the remaining SLA. Expiry is a read-time derivation; the
// record itself is never mutated by the passage of time.
func (s *JustificationService) TicketStatus(record *models.AttendanceRecord, now time.Time) (models.TicketStatus, time.Duration) {
	if record.EntryTime != nil && record.ExitTime != nil {
		return models.TicketApproved, 0
	}
	elapsed := now.UTC().Sub(dayStart(record.Date))
	if elapsed >= s.cfg.SLAWindow {
		return models.TicketExpired, 0
	}
	return models.TicketPending, s.cfg.SLAWindow - elapsed
}

// List returns justifications within the range with their derived status,
// per-intern monthly ticket usage, and SLA countdown. A zero range defaults
// to the current month up to today.
func (s *JustificationService) List(ctx context.Context, from, to time.Time) ([]dto.JustificationRow, error) {
	now := s.now().UTC()
	if from.IsZero() || to.IsZero() {
		to = dayStart(now)
		from = monthStart(to)
	}

	records, err := s.store.ListJustified(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list justifications")
	}

	rows := make([]dto.JustificationRow, 0, len(records))
	for i := range records {
		rec := &records[i]
		used, err := s.store.CountTickets(ctx, rec.InternID, monthStart(rec.Date), rec.Date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to count tickets")
		}

		status, remaining := s.TicketStatus(&rec.AttendanceRecord, now)
		row := dto.JustificationRow{
			ID:          rec.ID,
			InternID:    rec.InternID,
			InternName:  rec.InternName,
			Date:        rec.Date.Format("2006-01-02"),
			Status:      status,
			TicketsUsed: used,
			TicketCap:   s.cfg.TicketCap,
		}
		if rec.Reason != nil {
			row.Reason = *rec.Reason
		}
		if status == models.TicketPending {
			formatted := formatDuration(remaining)
			row.SLARemaining = &formatted
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
