package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rpsoft/puntualidad-api/internal/models"
)

// ScheduleRepository handles persistence for class schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, intern_id, class_day, recovery_day`

// GetByIntern returns an intern's schedule, or nil when none is set.
func (r *ScheduleRepository) GetByIntern(ctx context.Context, internID string) (*models.ClassSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_schedules WHERE intern_id = $1`, scheduleColumns)
	var schedule models.ClassSchedule
	if err := r.db.GetContext(ctx, &schedule, query, internID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule by intern: %w", err)
	}
	return &schedule, nil
}

// ListByClassDay returns all schedules whose class day matches.
func (r *ScheduleRepository) ListByClassDay(ctx context.Context, day models.Weekday) ([]models.ClassSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_schedules WHERE class_day = $1 ORDER BY intern_id`, scheduleColumns)
	var rows []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &rows, query, day); err != nil {
		return nil, fmt.Errorf("list schedules by class day: %w", err)
	}
	return rows, nil
}

// ListAll returns every stored schedule.
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.ClassSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_schedules ORDER BY intern_id`, scheduleColumns)
	var rows []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return rows, nil
}

// Upsert inserts or replaces the schedule for its intern.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *models.ClassSchedule) (*models.ClassSchedule, error) {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO class_schedules (%s, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (intern_id)
DO UPDATE SET class_day = EXCLUDED.class_day, recovery_day = EXCLUDED.recovery_day, updated_at = EXCLUDED.updated_at
RETURNING %s`, scheduleColumns, scheduleColumns)
	var stored models.ClassSchedule
	if err := r.db.GetContext(ctx, &stored, query, schedule.ID, schedule.InternID,
		schedule.ClassDay, schedule.RecoveryDay, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}
	return &stored, nil
}
