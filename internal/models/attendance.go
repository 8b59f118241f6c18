package models

import (
	"strings"
	"time"
)

// AttendanceState represents the daily state of an intern's attendance.
type AttendanceState string

const (
	StatePresent           AttendanceState = "present"
	StateLate              AttendanceState = "late"
	StateAbsentJustified   AttendanceState = "absent_justified"
	StateAbsentUnjustified AttendanceState = "absent_unjustified"
)

// Valid returns true when the state is a supported value.
func (s AttendanceState) Valid() bool {
	switch s {
	case StatePresent, StateLate, StateAbsentJustified, StateAbsentUnjustified:
		return true
	default:
		return false
	}
}

// TicketStatus is the derived review status of a justification ticket.
// It is never persisted; reviews are encoded by the record's timestamps.
type TicketStatus string

const (
	TicketPending  TicketStatus = "pendiente"
	TicketApproved TicketStatus = "aprobado"
	TicketExpired  TicketStatus = "vencido"
)

// AttendanceRecord is the single attendance row for an (intern, date) pair.
// At most one record exists per intern per calendar date.
type AttendanceRecord struct {
	ID        string          `db:"id" json:"id"`
	InternID  string          `db:"intern_id" json:"intern_id"`
	Date      time.Time       `db:"date" json:"date"`
	State     AttendanceState `db:"state" json:"state"`
	EntryTime *time.Time      `db:"entry_time" json:"entry_time,omitempty"`
	ExitTime  *time.Time      `db:"exit_time" json:"exit_time,omitempty"`
	Reason    *string         `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// IsJustified reports whether the record is a justified absence.
func (r *AttendanceRecord) IsJustified() bool {
	return r.State == StateAbsentJustified
}

// IsPresent reports whether the intern attended on time.
func (r *AttendanceRecord) IsPresent() bool {
	return r.State == StatePresent
}

// IsLate reports whether the intern arrived late.
func (r *AttendanceRecord) IsLate() bool {
	return r.State == StateLate
}

// HasReason reports whether the record carries a non-blank reason.
// A justified record with a reason counts as a ticket.
func (r *AttendanceRecord) HasReason() bool {
	return r.Reason != nil && strings.TrimSpace(*r.Reason) != ""
}

// ReviewPending reports whether a justified record still awaits review.
// Approval is encoded by both timestamps being populated.
func (r *AttendanceRecord) ReviewPending() bool {
	return r.EntryTime == nil || r.ExitTime == nil
}

// AttendanceStateCounts groups record counts per state for one date.
type AttendanceStateCounts struct {
	Present           int `json:"present"`
	Late              int `json:"late"`
	AbsentJustified   int `json:"absent_justified"`
	AbsentUnjustified int `json:"absent_unjustified"`
}

// JustifiedRecord extends a record with intern metadata for listings.
type JustifiedRecord struct {
	AttendanceRecord
	InternName string `db:"intern_name" json:"intern_name"`
}
