package models

import "time"

// RecoveryStatus is the stored lifecycle status of a recovery session.
type RecoveryStatus string

const (
	RecoveryPending    RecoveryStatus = "pending"
	RecoveryInProgress RecoveryStatus = "in_progress"
	RecoveryCompleted  RecoveryStatus = "completed"
	RecoveryCancelled  RecoveryStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s RecoveryStatus) Valid() bool {
	switch s {
	case RecoveryPending, RecoveryInProgress, RecoveryCompleted, RecoveryCancelled:
		return true
	default:
		return false
	}
}

// RecoverySession is a scheduled make-up period owned by one attendance
// record. Completed hours are always derived from the timestamps, never
// stored.
type RecoverySession struct {
	ID           string         `db:"id" json:"id"`
	RecordID     string         `db:"record_id" json:"record_id"`
	RecoveryDate time.Time      `db:"recovery_date" json:"recovery_date"`
	EntryTime    *time.Time     `db:"entry_time" json:"entry_time,omitempty"`
	ExitTime     *time.Time     `db:"exit_time" json:"exit_time,omitempty"`
	Status       RecoveryStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// RecoveryDetail joins a session with its owning record and intern.
type RecoveryDetail struct {
	RecoverySession
	InternID   string  `db:"intern_id" json:"intern_id"`
	InternName string  `db:"intern_name" json:"intern_name"`
	Reason     *string `db:"reason" json:"reason,omitempty"`
}
