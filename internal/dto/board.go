package dto

import "github.com/rpsoft/puntualidad-api/internal/models"

// InternDayRow is one intern on the daily punctuality board. Interns
// without a record for the day show up as unjustified absences.
type InternDayRow struct {
	InternID  string                 `json:"intern_id"`
	FullName  string                 `json:"full_name"`
	Team      string                 `json:"team,omitempty"`
	State     models.AttendanceState `json:"state"`
	EntryTime *string                `json:"entry_time,omitempty"`
	Ticket    *string                `json:"ticket,omitempty"`
}
