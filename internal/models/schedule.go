package models

import "time"

// Weekday names a day of the week as stored in class schedules.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Valid returns true when the weekday is a supported value.
func (w Weekday) Valid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	default:
		return false
	}
}

var weekdayNames = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf converts a calendar date to its schedule weekday.
func WeekdayOf(t time.Time) Weekday {
	return weekdayNames[t.Weekday()]
}

// ClassSchedule records which weekday an intern attends class, and
// optionally a preferred recovery day. At most one row per intern.
type ClassSchedule struct {
	ID          string   `db:"id" json:"id"`
	InternID    string   `db:"intern_id" json:"intern_id"`
	ClassDay    *Weekday `db:"class_day" json:"class_day,omitempty"`
	RecoveryDay *Weekday `db:"recovery_day" json:"recovery_day,omitempty"`
}

// HasClassOn reports whether the intern has class on the given day.
func (cs *ClassSchedule) HasClassOn(day Weekday) bool {
	return cs.ClassDay != nil && *cs.ClassDay == day
}
