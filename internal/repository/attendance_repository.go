package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rpsoft/puntualidad-api/internal/models"
)

// ErrTicketLimitReached signals that the monthly justification cap was hit
// inside the upsert transaction. The service layer maps it to the typed
// business failure.
var ErrTicketLimitReached = errors.New("monthly ticket limit reached")

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `id, intern_id, date, state, entry_time, exit_time, reason, created_at, updated_at`

// GetByID returns a record by primary key, or nil when absent.
func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE id = $1`, attendanceColumns)
	var rec models.AttendanceRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance record: %w", err)
	}
	return &rec, nil
}

// GetByInternAndDate returns the record for an (intern, date) pair, or nil.
func (r *AttendanceRepository) GetByInternAndDate(ctx context.Context, internID string, date time.Time) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE intern_id = $1 AND date = $2`, attendanceColumns)
	var rec models.AttendanceRecord
	if err := r.db.GetContext(ctx, &rec, query, internID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance by intern and date: %w", err)
	}
	return &rec, nil
}

// ListByDate returns all records for one calendar date.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE date = $1 ORDER BY intern_id`, attendanceColumns)
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	return rows, nil
}

// ListJustified returns justified records with a reason within a date range,
// joined with intern names, newest first.
func (r *AttendanceRepository) ListJustified(ctx context.Context, from, to time.Time) ([]models.JustifiedRecord, error) {
	query := `SELECT ar.id, ar.intern_id, ar.date, ar.state, ar.entry_time, ar.exit_time, ar.reason,
	ar.created_at, ar.updated_at, i.full_name AS intern_name
FROM attendance_records ar
JOIN interns i ON i.id = ar.intern_id
WHERE ar.state = $1 AND btrim(coalesce(ar.reason, '')) <> '' AND ar.date BETWEEN $2 AND $3
ORDER BY ar.date DESC, ar.intern_id`
	var rows []models.JustifiedRecord
	if err := r.db.SelectContext(ctx, &rows, query, models.StateAbsentJustified, from, to); err != nil {
		return nil, fmt.Errorf("list justified records: %w", err)
	}
	return rows, nil
}

// StateCounts groups record counts per state for a date.
func (r *AttendanceRepository) StateCounts(ctx context.Context, date time.Time) (*models.AttendanceStateCounts, error) {
	query := `SELECT state, COUNT(*) AS cnt FROM attendance_records WHERE date = $1 GROUP BY state`
	rows := []struct {
		State string `db:"state"`
		Count int    `db:"cnt"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("state counts: %w", err)
	}
	counts := &models.AttendanceStateCounts{}
	for _, row := range rows {
		switch models.AttendanceState(row.State) {
		case models.StatePresent:
			counts.Present += row.Count
		case models.StateLate:
			counts.Late += row.Count
		case models.StateAbsentJustified:
			counts.AbsentJustified += row.Count
		case models.StateAbsentUnjustified:
			counts.AbsentUnjustified += row.Count
		}
	}
	return counts, nil
}

// CountTickets counts justified-with-reason records for an intern within a
// date range.
func (r *AttendanceRepository) CountTickets(ctx context.Context, internID string, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM attendance_records
WHERE intern_id = $1 AND state = $2 AND btrim(coalesce(reason, '')) <> '' AND date BETWEEN $3 AND $4`
	var count int
	if err := r.db.GetContext(ctx, &count, query, internID, models.StateAbsentJustified, from, to); err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return count, nil
}

// InternsAtTicketCap returns interns whose justified-with-reason record count
// within the range has reached the cap.
func (r *AttendanceRepository) InternsAtTicketCap(ctx context.Context, from, to time.Time, cap int) ([]string, error) {
	query := `SELECT intern_id FROM attendance_records
WHERE state = $1 AND btrim(coalesce(reason, '')) <> '' AND date BETWEEN $2 AND $3
GROUP BY intern_id
HAVING COUNT(*) >= $4
ORDER BY intern_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, models.StateAbsentJustified, from, to, cap); err != nil {
		return nil, fmt.Errorf("interns at ticket cap: %w", err)
	}
	return ids, nil
}

// Upsert inserts or updates the record for its (intern_id, date) key.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO attendance_records (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (intern_id, date)
DO UPDATE SET state = EXCLUDED.state, entry_time = EXCLUDED.entry_time, exit_time = EXCLUDED.exit_time,
	reason = EXCLUDED.reason, updated_at = EXCLUDED.updated_at
RETURNING %s`, attendanceColumns, attendanceColumns)
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, record.ID, record.InternID, record.Date, record.State,
		record.EntryTime, record.ExitTime, record.Reason, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert attendance record: %w", err)
	}
	return &stored, nil
}

// UpsertJustification writes a justified record while checking the monthly
// ticket cap in the same transaction. The ticket rows for the month are
// locked so two racing calls cannot both pass the check near the cap. The
// record's own date is excluded from the count, which makes re-justification
// of the same date idempotent. Returns the stored record and the number of
// tickets already used before the write.
func (r *AttendanceRepository) UpsertJustification(ctx context.Context, record *models.AttendanceRecord, monthStart time.Time, cap int) (*models.AttendanceRecord, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin justification upsert: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	lockQuery := `SELECT id FROM attendance_records
WHERE intern_id = $1 AND state = $2 AND btrim(coalesce(reason, '')) <> ''
	AND date >= $3 AND date < $3 + INTERVAL '1 month' AND date <> $4
FOR UPDATE`
	var ticketIDs []string
	if err := tx.SelectContext(ctx, &ticketIDs, lockQuery, record.InternID, models.StateAbsentJustified,
		monthStart, record.Date); err != nil {
		return nil, 0, fmt.Errorf("lock ticket rows: %w", err)
	}
	used := len(ticketIDs)
	if used >= cap {
		return nil, used, ErrTicketLimitReached
	}

	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO attendance_records (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (intern_id, date)
DO UPDATE SET state = EXCLUDED.state, entry_time = EXCLUDED.entry_time, exit_time = EXCLUDED.exit_time,
	reason = EXCLUDED.reason, updated_at = EXCLUDED.updated_at
RETURNING %s`, attendanceColumns, attendanceColumns)
	var stored models.AttendanceRecord
	if err := tx.GetContext(ctx, &stored, query, record.ID, record.InternID, record.Date, record.State,
		record.EntryTime, record.ExitTime, record.Reason, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, used, fmt.Errorf("upsert justification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, used, fmt.Errorf("commit justification upsert: %w", err)
	}
	committed = true
	return &stored, used, nil
}
