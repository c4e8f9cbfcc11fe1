package util

import (
	"fmt"
	"time"
)

var (
	shortWeekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	shortMonths   = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// FormatClockTime renders t on a 12-hour clock, e.g. "01:05 PM".
// Midnight and noon render as "12".
func FormatClockTime(t time.Time) string {
	hours := t.Hour()
	suffix := "AM"
	if hours >= 12 {
		suffix = "PM"
	}
	hours = hours % 12
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hours, t.Minute(), suffix)
}

// FormatShortDate renders t as "Wed Mar 5": no year, unpadded day.
func FormatShortDate(t time.Time) string {
	return fmt.Sprintf("%s %s %d", shortWeekdays[t.Weekday()], shortMonths[t.Month()-1], t.Day())
}

func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatPixels formats a pixel value for logs and tables.
func FormatPixels(px float64) string {
	return fmt.Sprintf("%.2fpx", px)
}
