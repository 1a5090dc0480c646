package schedule

import (
	"github.com/georgemunganga/storefront/internal/apperror"
)

const dateLayout = "2006-01-02"

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, apperror.Newf(apperror.InvalidInput, "time %q must be HH:MM", s)
	}
	digit := func(b byte) (int, bool) { return int(b - '0'), b >= '0' && b <= '9' }
	h1, ok1 := digit(s[0])
	h2, ok2 := digit(s[1])
	m1, ok3 := digit(s[3])
	m2, ok4 := digit(s[4])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, apperror.Newf(apperror.InvalidInput, "time %q must be HH:MM", s)
	}
	hour, minute := h1*10+h2, m1*10+m2
	if hour > 23 || minute > 59 {
		return 0, apperror.Newf(apperror.InvalidInput, "time %q is not a valid 24-hour clock time", s)
	}
	return hour*60 + minute, nil
}

// Bounds returns the period's open and close minutes after midnight.
func (p TimePeriod) Bounds() (open, close int, err error) {
	if open, err = ParseClock(p.Open); err != nil {
		return 0, 0, err
	}
	if close, err = ParseClock(p.Close); err != nil {
		return 0, 0, err
	}
	if open >= close {
		return 0, 0, apperror.Newf(apperror.InvalidInput,
			"period %s-%s must open before it closes on the same day", p.Open, p.Close)
	}
	return open, close, nil
}

func (p TimePeriod) Validate() error {
	_, _, err := p.Bounds()
	return err
}

// Validate checks the periods of an open day: each well formed, sorted by
// open time and non-overlapping. Both bounds are inclusive, so a period
// may not open on the minute the previous one closes.
func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	prevClose := -1
	for i, p := range d.Periods {
		open, close, err := p.Bounds()
		if err != nil {
			return err
		}
		if i > 0 && open <= prevClose {
			return apperror.Newf(apperror.InvalidInput,
				"period %s-%s overlaps or precedes the previous period", p.Open, p.Close)
		}
		prevClose = close
	}
	return nil
}

func (w WeeklySchedule) Validate() error {
	if len(w) != len(Days) {
		return apperror.Newf(apperror.InvalidInput, "weekly schedule must have %d days, got %d", len(Days), len(w))
	}
	for _, day := range Days {
		ds, ok := w[day]
		if !ok {
			return apperror.Newf(apperror.InvalidInput, "weekly schedule is missing %s", day)
		}
		if err := ds.Validate(); err != nil {
			return apperror.Wrap(apperror.InvalidInput, err, string(day))
		}
	}
	return nil
}

func (e DateException) Validate() error {
	if _, err := parseDate(e.Date); err != nil {
		return err
	}
	return DaySchedule{IsOpen: e.IsOpen, Periods: e.Periods}.Validate()
}
