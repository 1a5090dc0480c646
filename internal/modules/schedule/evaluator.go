package schedule

import (
	"time"

	"github.com/georgemunganga/storefront/internal/apperror"
)

// HorizonDays bounds how far NextOpenWindows looks ahead, today included.
const HorizonDays = 14

// Calendar is a weekly schedule plus date exceptions, evaluated in Location.
// A nil Location evaluates every timestamp in its own location.
type Calendar struct {
	Week       WeeklySchedule
	Exceptions []DateException
	Location   *time.Location
}

// IsOpenAt evaluates week at the given instant.
func IsOpenAt(week WeeklySchedule, at time.Time) (Status, error) {
	return Calendar{Week: week}.IsOpenAt(at)
}

// NextOpenWindows lists up to count upcoming open windows of week, starting
// with the day of from.
func NextOpenWindows(week WeeklySchedule, from time.Time, count int) ([]Window, error) {
	return Calendar{Week: week}.NextOpenWindows(from, count)
}

func (c Calendar) Validate() error {
	if err := c.Week.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Exceptions))
	for _, e := range c.Exceptions {
		if err := e.Validate(); err != nil {
			return apperror.Wrap(apperror.InvalidInput, err, "exception "+e.Date)
		}
		if seen[e.Date] {
			return apperror.Newf(apperror.InvalidInput, "duplicate exception for %s", e.Date)
		}
		seen[e.Date] = true
	}
	return nil
}

// IsOpenAt reports whether the calendar is open at the instant and which
// period matched. Boundaries are inclusive at minute granularity.
func (c Calendar) IsOpenAt(at time.Time) (Status, error) {
	if err := c.Validate(); err != nil {
		return Status{}, err
	}
	t := c.local(at)
	day, exception := c.dayFor(t)

	if !day.IsOpen {
		if exception != nil {
			return Status{Reason: ReasonExceptionClosed}, nil
		}
		return Status{Reason: ReasonDayClosed}, nil
	}
	if len(day.Periods) == 0 {
		return Status{Reason: ReasonNoPeriods}, nil
	}

	minute := minuteOfDay(t)
	for _, p := range day.Periods {
		open, close, _ := p.Bounds()
		if open <= minute && minute <= close {
			active := p
			return Status{IsOpen: true, Reason: ReasonOpen, ActivePeriod: &active}, nil
		}
	}
	return Status{Reason: ReasonOutsideHours}, nil
}

// NextOpenWindows walks forward from the day of from, skipping closed days,
// and returns at most count windows in chronological order. Periods of the
// first day that closed before from are skipped; a period in progress is kept.
func (c Calendar) NextOpenWindows(from time.Time, count int) ([]Window, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	windows := []Window{}
	if count <= 0 {
		return windows, nil
	}

	t := c.local(from)
	y, m, d := t.Date()
	nowMinute := minuteOfDay(t)

	for i := 0; i < HorizonDays && len(windows) < count; i++ {
		date := time.Date(y, m, d+i, 0, 0, 0, 0, t.Location())
		day, _ := c.dayFor(date)
		if !day.IsOpen {
			continue
		}
		for _, p := range day.Periods {
			open, close, _ := p.Bounds()
			if i == 0 && close < nowMinute {
				continue
			}
			dy, dm, dd := date.Date()
			windows = append(windows, Window{
				Date:   date.Format(dateLayout),
				Period: p,
				Start:  time.Date(dy, dm, dd, open/60, open%60, 0, 0, date.Location()),
				End:    time.Date(dy, dm, dd, close/60, close%60, 0, 0, date.Location()),
			})
			if len(windows) == count {
				break
			}
		}
	}
	return windows, nil
}

// WindowAt returns the open window containing t, if any, within the horizon
// that starts on t's own day.
func (c Calendar) WindowAt(t time.Time) (*Window, error) {
	windows, err := c.NextOpenWindows(t, maxPeriodsPerDay)
	if err != nil {
		return nil, err
	}
	lt := c.local(t)
	for i := range windows {
		if windows[i].Date != lt.Format(dateLayout) {
			break
		}
		if windows[i].Contains(lt) {
			return &windows[i], nil
		}
	}
	return nil, nil
}

// maxPeriodsPerDay caps the periods of one day: non-overlapping minute
// intervals cannot exceed the minutes in a day.
const maxPeriodsPerDay = 24 * 60

func (c Calendar) local(t time.Time) time.Time {
	if c.Location != nil {
		return t.In(c.Location)
	}
	return t
}

func (c Calendar) dayFor(t time.Time) (DaySchedule, *DateException) {
	key := t.Format(dateLayout)
	for i := range c.Exceptions {
		if c.Exceptions[i].Date == key {
			e := c.Exceptions[i]
			return DaySchedule{IsOpen: e.IsOpen, Periods: e.Periods}, &e
		}
	}
	return c.Week[DayOf(t.Weekday())], nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperror.Newf(apperror.InvalidInput, "date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}
