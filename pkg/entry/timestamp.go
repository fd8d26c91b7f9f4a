package entry

import (
	"time"
)

const (
	// DateLayout is the short locale date stored on entries (en-US).
	DateLayout = "1/2/2006"
	// TimeLayout is the short locale time stored on entries.
	TimeLayout = "03:04 PM"
	// ISOLayout is accepted on input, e.g. --on=2025-02-28.
	ISOLayout = "2006-01-02"
)

// FormatDate renders the local calendar day of t.
func FormatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// FormatTime renders the local time of day of t.
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// ParseDate reads a stored date string as a local calendar day.
func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, v, time.Local)
}

// ParseDay accepts either the stored layout or ISO dates.
func ParseDay(v string) (time.Time, error) {
	if t, err := time.ParseInLocation(ISOLayout, v, time.Local); err == nil {
		return t, nil
	}
	return ParseDate(v)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}

// AddDays moves t by n calendar days, keeping it on local midnight so DST
// shifts never skip or repeat a day.
func AddDays(t time.Time, n int) time.Time {
	d := StartOfDay(t)
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, time.Local)
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	da := StartOfDay(a)
	db := StartOfDay(b)
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
