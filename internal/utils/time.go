package utils

import (
	"fmt"
	"time"
)

// DateLayout is the DD/MM/YYYY format used across input files, AI payloads
// and sheet labels.
const DateLayout = "02/01/2006"

// ParseDate parses a date string in DD/MM/YYYY format.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate formats a time.Time as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekdayName returns the English weekday name, e.g. "Monday".
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

// MondayOf returns the Monday of the week containing the given date,
// truncated to midnight. A Sunday belongs to the week that started six days
// earlier.
func MondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

// FridayOf returns the Friday of the week containing the given date.
func FridayOf(t time.Time) time.Time {
	return MondayOf(t).AddDate(0, 0, 4)
}

// MonthStart returns midnight on the first day of the date's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns midnight on the last day of the date's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// IsWeekend reports whether the date is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ISOWeekString formats the ISO week of a date as "2025-W30".
func ISOWeekString(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
