package helpers

import (
	"strconv"
	"time"
)

// LongDate renders a calendar date for humans, e.g. "Saturday, 1 March 2025".
func LongDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

// DaysUntilText phrases a birthday countdown.
func DaysUntilText(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return "in " + strconv.Itoa(days) + " days"
	}
}
