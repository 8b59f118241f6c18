package dto

import "github.com/rpsoft/puntualidad-api/internal/models"

// RecoveryRow is one recovery session with its derived hours and status.
type RecoveryRow struct {
	ID             string                `json:"id"`
	RecordID       string                `json:"record_id"`
	InternID       string                `json:"intern_id"`
	InternName     string                `json:"intern_name"`
	TicketRef      string                `json:"ticket_ref"`
	ScheduledDate  string                `json:"scheduled_date"`
	Window         string                `json:"window,omitempty"`
	Status         models.RecoveryStatus `json:"status"`
	CompletedHours float64               `json:"completed_hours"`
	TargetHours    int                   `json:"target_hours"`
}
