package store

import "time"

const DateFormat = "2006-01-02"

// DayKey returns the calendar-day key of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DateFormat)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	weekday := t.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	return StartOfDay(t).AddDate(0, 0, -int(weekday-time.Monday))
}

// WeekKey is the day key of the week's Monday.
func WeekKey(t time.Time) string {
	return DayKey(StartOfWeek(t))
}

// ParseDay parses a day key as midnight in loc.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, key, loc)
}

// DayIndex returns 0 for Monday through 6 for Sunday.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
