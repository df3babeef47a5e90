// Package fiscal is the single place that knows where the leave accounting
// year begins. Every balance query, allocation lookup and listing filter goes
// through a Calendar; nothing else may hardcode the boundary.
package fiscal

import "time"

// DefaultStartMonth is the accounting-year boundary used when none is
// configured: April 1 through March 31.
const DefaultStartMonth = time.April

// Calendar maps calendar dates to accounting-year windows. The zero value is
// not usable; construct with New.
type Calendar struct {
	startMonth time.Month
}

func New(startMonth time.Month) Calendar {
	if startMonth < time.January || startMonth > time.December {
		startMonth = DefaultStartMonth
	}
	return Calendar{startMonth: startMonth}
}

func Default() Calendar {
	return New(DefaultStartMonth)
}

func (c Calendar) StartMonth() time.Month {
	return c.startMonth
}

// Window returns the inclusive accounting-year window that begins in the
// given calendar year: [startMonth 1 of year, day before startMonth 1 of
// year+1]. Both bounds are UTC midnights.
func (c Calendar) Window(year int) (start, end time.Time) {
	start = time.Date(year, c.startMonth, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(1, 0, -1)
	return start, end
}

// WindowForMonth returns the accounting-year window containing the given
// calendar year and month. A month before the boundary month belongs to the
// window that started the previous calendar year.
func (c Calendar) WindowForMonth(year int, month time.Month) (start, end time.Time) {
	if month < c.startMonth {
		year--
	}
	return c.Window(year)
}

// YearFor returns the accounting year (the calendar year the window starts
// in) containing t.
func (c Calendar) YearFor(t time.Time) int {
	if t.Month() < c.startMonth {
		return t.Year() - 1
	}
	return t.Year()
}

// WindowFor returns the accounting-year window containing t.
func (c Calendar) WindowFor(t time.Time) (start, end time.Time) {
	return c.Window(c.YearFor(t))
}

// Contains reports whether t falls inside the accounting year that begins in
// the given calendar year. Comparison is by date, ignoring time of day.
func (c Calendar) Contains(year int, t time.Time) bool {
	start, end := c.Window(year)
	d := DateOnly(t)
	return !d.Before(start) && !d.After(end)
}

// DateOnly truncates t to a UTC midnight so date comparisons ignore time of
// day and zone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekKey returns a sortable ISO week identifier (year*100 + week) computed
// in application code rather than with store-specific SQL week functions.
func WeekKey(t time.Time) int {
	year, week := t.ISOWeek()
	return year*100 + week
}

// DaysBetween returns the number of whole days from a to b, by date. Negative
// when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
