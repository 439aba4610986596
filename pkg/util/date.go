package util

import "time"

// DayLayout is the calendar-date label used on chart axes.
const DayLayout = "2006-01-02"

// DayLabel formats t as a calendar date in UTC.
func DayLabel(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// DayLabels formats each time as a calendar date, preserving order.
func DayLabels(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = DayLabel(t)
	}
	return out
}

// TruncateDay drops the time of day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
