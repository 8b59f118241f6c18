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

// RecoveryRepository handles persistence for recovery sessions.
type RecoveryRepository struct {
	db *sqlx.DB
}

// NewRecoveryRepository constructs the repository.
func NewRecoveryRepository(db *sqlx.DB) *RecoveryRepository {
	return &RecoveryRepository{db: db}
}

const recoveryColumns = `id, record_id, recovery_date, entry_time, exit_time, status, created_at, updated_at`

// GetByID returns a session by primary key, or nil when absent.
func (r *RecoveryRepository) GetByID(ctx context.Context, id string) (*models.RecoverySession, error) {
	query := fmt.Sprintf(`SELECT %s FROM recovery_sessions WHERE id = $1`, recoveryColumns)
	var session models.RecoverySession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get recovery session: %w", err)
	}
	return &session, nil
}

// ListByRecord returns all sessions owned by one attendance record.
func (r *RecoveryRepository) ListByRecord(ctx context.Context, recordID string) ([]models.RecoverySession, error) {
	query := fmt.Sprintf(`SELECT %s FROM recovery_sessions WHERE record_id = $1 ORDER BY recovery_date DESC`, recoveryColumns)
	var rows []models.RecoverySession
	if err := r.db.SelectContext(ctx, &rows, query, recordID); err != nil {
		return nil, fmt.Errorf("list recovery sessions by record: %w", err)
	}
	return rows, nil
}

// List returns sessions joined with their owning record and intern, newest
// first, capped at limit.
func (r *RecoveryRepository) List(ctx context.Context, limit int) ([]models.RecoveryDetail, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT rs.id, rs.record_id, rs.recovery_date, rs.entry_time, rs.exit_time, rs.status,
	rs.created_at, rs.updated_at, ar.intern_id, i.full_name AS intern_name, ar.reason
FROM recovery_sessions rs
JOIN attendance_records ar ON ar.id = rs.record_id
JOIN interns i ON i.id = ar.intern_id
ORDER BY rs.recovery_date DESC, rs.id DESC
LIMIT %d`, limit)
	var rows []models.RecoveryDetail
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list recovery sessions: %w", err)
	}
	return rows, nil
}

// Create inserts a new session.
func (r *RecoveryRepository) Create(ctx context.Context, session *models.RecoverySession) (*models.RecoverySession, error) {
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = now
	session.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO recovery_sessions (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING %s`, recoveryColumns, recoveryColumns)
	var stored models.RecoverySession
	if err := r.db.GetContext(ctx, &stored, query, session.ID, session.RecordID, session.RecoveryDate,
		session.EntryTime, session.ExitTime, session.Status, session.CreatedAt, session.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create recovery session: %w", err)
	}
	return &stored, nil
}

// Update persists timestamp and status changes for an existing session.
func (r *RecoveryRepository) Update(ctx context.Context, session *models.RecoverySession) (*models.RecoverySession, error) {
	session.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE recovery_sessions
SET recovery_date = $2, entry_time = $3, exit_time = $4, status = $5, updated_at = $6
WHERE id = $1
RETURNING %s`, recoveryColumns)
	var stored models.RecoverySession
	if err := r.db.GetContext(ctx, &stored, query, session.ID, session.RecoveryDate,
		session.EntryTime, session.ExitTime, session.Status, session.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("update recovery session: %w", err)
	}
	return &stored, nil
}
