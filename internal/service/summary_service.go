package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/internal/models"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
)

type summaryAttendanceStore interface {
	StateCounts(ctx context.Context, date time.Time) (*models.AttendanceStateCounts, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error)
	InternsAtTicketCap(ctx context.Context, from, to time.Time, cap int) ([]string, error)
}

type summaryScheduleStore interface {
	ListAll(ctx context.Context) ([]models.ClassSchedule, error)
}

// SummaryServiceConfig tunes aggregation behaviour.
type SummaryServiceConfig struct {
	CacheTTL         time.Duration
	AlertPreviewSize int
	TicketCap        int
}

// SummaryService aggregates punctuality counts and alerts across the day's
// records. Summaries are eventually consistent snapshots; reads may race
// with in-flight writes.
type SummaryService struct {
	attendance summaryAttendanceStore
	schedules  summaryScheduleStore
	roster     internRoster
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
	cfg        SummaryServiceConfig
}

// NewSummaryService constructs the aggregator with sane defaults.
func NewSummaryService(attendance summaryAttendanceStore, schedules summaryScheduleStore, roster internRoster, cache *CacheService, logger *zap.Logger, cfg SummaryServiceConfig) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.AlertPreviewSize <= 0 {
		cfg.AlertPreviewSize = 5
	}
	if cfg.TicketCap <= 0 {
		cfg.TicketCap = 3
	}
	return &SummaryService{
		attendance: attendance,
		schedules:  schedules,
		roster:     roster,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// Daily aggregates attendance counts for one date and reports whether the
// payload came from cache.
func (s *SummaryService) Daily(ctx context.Context, date time.Time) (*dto.DailySummary, bool, error) {
	cacheKey := fmt.Sprintf("punctuality:summary:%s", date.Format("2006-01-02"))
	if s.cache.Enabled() {
		var cached dto.DailySummary
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	counts, err := s.attendance.StateCounts(ctx, date)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to count attendance")
	}

	interns, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load roster")
	}
	schedules, err := s.scheduleIndex(ctx)
	if err != nil {
		return nil, false, err
	}

	weekday := models.WeekdayOf(date)
	withClass := 0
	withoutOverride := 0
	for _, intern := range interns {
		schedule, ok := schedules[intern.ID]
		switch {
		case ok && schedule.HasClassOn(weekday):
			withClass++
		case !ok || schedule.ClassDay == nil:
			// no class-day override: expected in the office every day
			withoutOverride++
		}
	}

	summary := &dto.DailySummary{
		Date:              date.Format("2006-01-02"),
		Present:           counts.Present,
		Late:              counts.Late,
		AbsentJustified:   counts.AbsentJustified,
		AbsentUnjustified: counts.AbsentUnjustified,
		WithClassToday:    withClass,
		TotalExpected:     withoutOverride + withClass,
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

// Alerts produces the structured punctuality alerts for one date: late
// arrivals, unjustified absences of interns with no class scheduled, and
// interns who exhausted their monthly tickets. Preview lists are capped.
func (s *SummaryService) Alerts(ctx context.Context, date time.Time) ([]dto.Alert, error) {
	records, err := s.attendance.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list attendance")
	}
	schedules, err := s.scheduleIndex(ctx)
	if err != nil {
		return nil, err
	}

	weekday := models.WeekdayOf(date)
	var late, absentNoClass []string
	for i := range records {
		rec := &records[i]
		if rec.IsLate() {
			late = append(late, rec.InternID)
			continue
		}
		if rec.State != models.StateAbsentUnjustified {
			continue
		}
		if schedule, ok := schedules[rec.InternID]; !ok || !schedule.HasClassOn(weekday) {
			absentNoClass = append(absentNoClass, rec.InternID)
		}
	}

	atCap, err := s.attendance.InternsAtTicketCap(ctx, monthStart(date), date, s.cfg.TicketCap)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to check ticket caps")
	}

	alerts := make([]dto.Alert, 0, 3)
	if len(late) > 0 {
		alerts = append(alerts, dto.Alert{
			Type:        dto.AlertTypeLate,
			Title:       "Late arrivals detected",
			Description: "Interns who arrived after the grace period",
			Count:       len(late),
			Preview:     s.preview(late),
		})
	}
	if len(absentNoClass) > 0 {
		alerts = append(alerts, dto.Alert{
			Type:        dto.AlertTypeAbsence,
			Title:       "Unjustified absences without class",
			Description: "Interns absent with no class scheduled today",
			Count:       len(absentNoClass),
			Preview:     s.preview(absentNoClass),
		})
	}
	if len(atCap) > 0 {
		alerts = append(alerts, dto.Alert{
			Type:        dto.AlertTypeTicketLimit,
			Title:       "Monthly ticket limit reached",
			Description: fmt.Sprintf("Interns who used all %d justification tickets this month", s.cfg.TicketCap),
			Count:       len(atCap),
			Preview:     s.preview(atCap),
		})
	}
	return alerts, nil
}

func (s *SummaryService) scheduleIndex(ctx context.Context) (map[string]*models.ClassSchedule, error) {
	schedules, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load schedules")
	}
	index := make(map[string]*models.ClassSchedule, len(schedules))
	for i := range schedules {
		index[schedules[i].InternID] = &schedules[i]
	}
	return index, nil
}

func (s *SummaryService) preview(ids []string) []string {
	if len(ids) <= s.cfg.AlertPreviewSize {
		return ids
	}
	return ids[:s.cfg.AlertPreviewSize]
}
