package schedule

import (
	"time"
)

// Day identifies a day of the week in persisted schedule documents.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the seven days in calendar order starting on Monday.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayOf maps a time.Weekday to its Day.
func DayOf(w time.Weekday) Day {
	switch w {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// TimePeriod is a same-day opening interval in 24h "HH:MM" notation.
type TimePeriod struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// DaySchedule describes one day. Periods are ignored when IsOpen is false.
type DaySchedule struct {
	IsOpen  bool         `json:"isOpen"`
	Periods []TimePeriod `json:"periods"`
}

// WeeklySchedule holds exactly one DaySchedule per Day.
type WeeklySchedule map[Day]DaySchedule

// DateException replaces the weekly schedule for a single calendar date.
type DateException struct {
	Date    string       `json:"date"` // YYYY-MM-DD
	IsOpen  bool         `json:"isOpen"`
	Periods []TimePeriod `json:"periods,omitempty"`
	Reason  string       `json:"reason,omitempty"`
}

// Reason explains a Status.
type Reason string

const (
	ReasonOpen            Reason = "OPEN"
	ReasonDayClosed       Reason = "DAY_CLOSED"
	ReasonNoPeriods       Reason = "NO_PERIODS" // day flagged open but has no periods
	ReasonOutsideHours    Reason = "OUTSIDE_HOURS"
	ReasonExceptionClosed Reason = "EXCEPTION_CLOSED"
)

// Status is the result of evaluating a schedule at one instant.
type Status struct {
	IsOpen       bool        `json:"is_open"`
	Reason       Reason      `json:"reason"`
	ActivePeriod *TimePeriod `json:"active_period,omitempty"`
}

// Window is one concrete opening interval on a calendar date.
type Window struct {
	Date   string     `json:"date"`
	Period TimePeriod `json:"period"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
}

// Contains reports whether t falls inside the window. Both ends are inclusive
// at minute granularity.
func (w Window) Contains(t time.Time) bool {
	m := t.Truncate(time.Minute)
	return !m.Before(w.Start) && !m.After(w.End)
}
