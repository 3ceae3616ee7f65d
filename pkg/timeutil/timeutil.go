// Package timeutil provides timezone utilities for Doha timezone (UTC+3).
// All engagement deadlines (streaks, daily bonuses) roll over at Doha midnight,
// since the portal serves an on-campus population. Qatar does not observe DST,
// so the offset is constant year-round.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DohaTZ is the Doha timezone (UTC+3, no DST).
var DohaTZ = time.FixedZone("Asia/Qatar", 3*60*60)

// Now returns the current time in Doha timezone.
func Now() time.Time {
	return time.Now().In(DohaTZ)
}

// ToDoha converts a time to Doha timezone.
func ToDoha(t time.Time) time.Time {
	return t.In(DohaTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Doha timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, DohaTZ)
}

// DateTime creates a time in Doha timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, DohaTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Doha timezone.
func StartOfDay(t time.Time) time.Time {
	doha := ToDoha(t)
	return time.Date(doha.Year(), doha.Month(), doha.Day(), 0, 0, 0, 0, DohaTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Doha timezone.
func EndOfDay(t time.Time) time.Time {
	doha := ToDoha(t)
	return time.Date(doha.Year(), doha.Month(), doha.Day(), 23, 59, 59, 999999999, DohaTZ)
}

// DaysBetween returns the number of whole calendar days between two times,
// measured on Doha wall-clock dates. The result is positive when b falls on
// a later date than a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// SameDay returns true if both times fall on the same Doha calendar date.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// ══════════════════════════════════════════════════════════════════════════════
// CIVIL DATE
// ══════════════════════════════════════════════════════════════════════════════

// CivilDate is a calendar date without a time component. It is the idempotency
// key type for date-gated operations: two instants compare equal exactly when
// they share a Doha wall-clock date, which keeps day boundaries unambiguous
// regardless of where the wall clock was read.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// CivilDateOf returns the CivilDate of the given instant in Doha timezone.
func CivilDateOf(t time.Time) CivilDate {
	doha := ToDoha(t)
	return CivilDate{Year: doha.Year(), Month: doha.Month(), Day: doha.Day()}
}

// Today returns the current Doha calendar date.
func Today() CivilDate {
	return CivilDateOf(time.Now())
}

// IsZero returns true for the zero-value date (no date recorded).
func (d CivilDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Equal returns true if both dates denote the same calendar day.
func (d CivilDate) Equal(other CivilDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// Before returns true if d is an earlier calendar day than other.
func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Time returns the start of the day in Doha timezone.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, DohaTZ)
}

// DaysUntil returns the number of calendar days from d to other.
func (d CivilDate) DaysUntil(other CivilDate) int {
	return DaysBetween(d.Time(), other.Time())
}

// String returns the date in ISO form (2006-01-02).
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseCivilDate parses a date in ISO form (2006-01-02).
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.ParseInLocation("2006-01-02", s, DohaTZ)
	if err != nil {
		return CivilDate{}, fmt.Errorf("timeutil: invalid civil date %q: %w", s, err)
	}
	return CivilDateOf(t), nil
}

// MarshalText implements encoding.TextMarshaler.
func (d CivilDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *CivilDate) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = CivilDate{}
		return nil
	}
	parsed, err := ParseCivilDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FormatDate formats a time as a date string in Doha timezone.
func FormatDate(t time.Time) string {
	return ToDoha(t).Format("2006-01-02")
}

// FormatDateTime formats a time as a date-time string in Doha timezone.
func FormatDateTime(t time.Time) string {
	return ToDoha(t).Format("2006-01-02 15:04:05")
}
