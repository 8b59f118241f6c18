package dto

// DailySummary aggregates attendance counts for one date.
type DailySummary struct {
	Date              string `json:"date"`
	Present           int    `json:"present"`
	Late              int    `json:"late"`
	AbsentJustified   int    `json:"absent_justified"`
	AbsentUnjustified int    `json:"absent_unjustified"`
	WithClassToday    int    `json:"with_class_today"`
	TotalExpected     int    `json:"total_expected"`
}

// Alert types produced by the punctuality aggregator.
const (
	AlertTypeLate        = "late"
	AlertTypeAbsence     = "absence"
	AlertTypeTicketLimit = "ticket_limit"
)

// Alert is a structured punctuality alert. Preview is capped to bound
// payload size; Count carries the full total.
type Alert struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Count       int      `json:"count"`
	Preview     []string `json:"preview"`
}
