package dto

import "github.com/rpsoft/puntualidad-api/internal/models"

// JustificationCreated is returned when a justification ticket is opened or
// re-opened for a date.
type JustificationCreated struct {
	Record        *models.AttendanceRecord `json:"record"`
	TicketOrdinal int                      `json:"ticket_ordinal"`
	TicketCap     int                      `json:"ticket_cap"`
	SLAHours      int                      `json:"sla_hours"`
}

// JustificationRow is one entry in the justification listing with its
// derived review status and SLA countdown.
type JustificationRow struct {
	ID           string              `json:"id"`
	InternID     string              `json:"intern_id"`
	InternName   string              `json:"intern_name,omitempty"`
	Date         string              `json:"date"`
	Reason       string              `json:"reason"`
	Status       models.TicketStatus `json:"status"`
	TicketsUsed  int                 `json:"tickets_used"`
	TicketCap    int                 `json:"tickets_cap"`
	SLARemaining *string             `json:"sla_remaining,omitempty"`
}
