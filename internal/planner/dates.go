package planner

import (
	"fmt"
	"time"
)

// DateLayout is the exchange format for plan start and end dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC so
// that differences between dates are always whole days.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// CalendarDate strips the time of day from t, keeping the calendar date as
// seen in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from start to end. It is
// negative when end is before start. Seconds are compared directly because
// time.Duration saturates at about 292 years.
func DaysBetween(start, end time.Time) int {
	return int((CalendarDate(end).Unix() - CalendarDate(start).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// FormatStatTime renders a stats timestamp as "YYYY-M-D H:MM": no padding
// except for the minute.
func FormatStatTime(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d %d:%02d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}
